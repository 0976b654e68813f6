// Package oauth2 carries the RFC 6749 wire representations produced for the
// HTTP layer wrapping this module.
package oauth2

import (
	"time"

	xoauth2 "golang.org/x/oauth2"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/token"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/token/refresh"
)

// TokenResponse is the token endpoint response format of RFC 6749 section
// 5.1, built from an issued access token / refresh token pair.
type TokenResponse struct {
	// AccessToken is the opaque bearer token used to access protected
	// resources via "Authorization: Bearer <access_token>".
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer" in this implementation.
	TokenType string `json:"token_type"`

	// ExpiresIn is the remaining lifetime of the access token in whole
	// seconds at the time the response was built.
	ExpiresIn int `json:"expires_in,omitempty"`

	// RefreshToken obtains a replacement access token; it rotates on use.
	RefreshToken string `json:"refresh_token,omitempty"`

	// Scope is the space-separated list of granted scopes.
	Scope string `json:"scope,omitempty"`
}

// NewTokenResponse builds the wire response for an issued pair. refreshToken
// may be nil when no refresh token was produced. reference is the time
// ExpiresIn is computed against.
func NewTokenResponse(accessToken *token.AccessToken, refreshToken *refresh.RefreshToken, reference time.Time) TokenResponse {
	tr := TokenResponse{
		AccessToken: accessToken.Token,
		TokenType:   "bearer",
		ExpiresIn:   accessToken.ExpireDelta(reference),
		Scope:       accessToken.Scope.String(),
	}
	if refreshToken != nil {
		tr.RefreshToken = refreshToken.Token
	}
	return tr
}

// Token converts the response into a golang.org/x/oauth2 Token, usable with
// any client code built on that package.
func (tr TokenResponse) Token(expires time.Time) *xoauth2.Token {
	return &xoauth2.Token{
		AccessToken:  tr.AccessToken,
		TokenType:    tr.TokenType,
		RefreshToken: tr.RefreshToken,
		Expiry:       expires,
	}
}
