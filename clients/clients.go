// Package clients holds the registered OAuth2 client applications and their
// registration lifecycle.
package clients

import (
	"time"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/expiry"
	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/utils"
)

type ClientType string

const (
	ClientTypeConfidential ClientType = "confidential" // Can keep secrets (server-side apps)
	ClientTypePublic       ClientType = "public"       // Cannot keep secrets (SPAs, mobile apps)
)

// Client is a registered application, per RFC 6749 section 2.
type Client struct {
	ID          string     `json:"id"`                // Record identifier
	UserID      *string    `json:"userId,omitempty"`  // Owning user; nil when registered without a user principal
	Name        string     `json:"name"`              // Display name
	URL         string     `json:"url"`               // The application's URL
	RedirectURI string     `json:"redirectUri"`       // The application's callback URL
	ClientID    string     `json:"clientId"`          // Globally unique client identifier (short token)
	Secret      string     `json:"-"`                 // Client secret (long token), only shown to the owning user
	Type        ClientType `json:"type"`              // public or confidential
}

// IsPublic reports whether the client was registered without an owning user.
// Note this is independent of Type, which is what drives token TTL policy.
func (c *Client) IsPublic() bool {
	return c.UserID == nil
}

// IsSandbox reports whether the client is owned by the configured sandbox
// user, a privileged client used for API exploration.
func (c *Client) IsSandbox(sandboxUserID string) bool {
	return sandboxUserID != "" && c.UserID != nil && *c.UserID == sandboxUserID
}

// DefaultTokenExpiry returns the expiry for access tokens issued to this
// client when no explicit expiry is given, based on the client type.
func (c *Client) DefaultTokenExpiry(policy *expiry.Policy) time.Time {
	return policy.TokenExpiry(c.Type == ClientTypePublic)
}

// Serialize produces a transport-safe representation of the client for
// cross-request handoff (e.g. a session or signed cookie). The field list is
// explicit; an absent owning user serializes as the empty string.
func (c *Client) Serialize() map[string]any {
	if c == nil {
		return nil
	}

	return map[string]any{
		"user":          utils.Value(c.UserID),
		"name":          c.Name,
		"url":           c.URL,
		"redirect_uri":  c.RedirectURI,
		"client_id":     c.ClientID,
		"client_secret": c.Secret,
		"client_type":   string(c.Type),
	}
}

// Deserialize reconstructs a Client from a serialized representation.
// Empty input returns nil without error.
func Deserialize(data map[string]any) *Client {
	if len(data) == 0 {
		return nil
	}

	c := &Client{
		Name:        stringField(data, "name"),
		URL:         stringField(data, "url"),
		RedirectURI: stringField(data, "redirect_uri"),
		ClientID:    stringField(data, "client_id"),
		Secret:      stringField(data, "client_secret"),
		Type:        ClientType(stringField(data, "client_type")),
	}

	if user := stringField(data, "user"); user != "" {
		c.UserID = &user
	}

	return c
}

func stringField(data map[string]any, name string) string {
	s, _ := data[name].(string)
	return s
}
