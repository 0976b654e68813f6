// Package refresh holds refresh tokens: long-lived credentials that can be
// swapped for a new access token once the old one expires.
package refresh

// RefreshToken pairs 1:1 with a live access token. Exchanging it marks it
// expired and mints a replacement access token / refresh token pair; an
// expired refresh token is never reused.
type RefreshToken struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	ClientID    string `json:"clientId"`    // Client identifier (natural key)
	Token       string `json:"token"`       // Unique long token
	AccessToken string `json:"accessToken"` // Token string of the paired access token
	Expired     bool   `json:"expired"`
}
