// Package tokengen produces the random identifiers used throughout the
// provider: client IDs, client secrets, authorization codes, and access and
// refresh token strings. Two strengths are generated: short identifiers for
// client-facing IDs and long identifiers for anything secret.
package tokengen

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/config"
)

// Generator creates hex-encoded identifiers from a cryptographically secure
// random source. Hex keeps the output safe for URLs and HTTP headers.
//
// The generator never retries: if a generated value collides with an existing
// row, the repository surfaces ErrUniqueConstraint and the caller generates a
// fresh value.
type Generator struct {
	shortLength int
	longLength  int
}

// NewGenerator returns a Generator with lengths taken from cfg.
func NewGenerator(cfg config.ProviderConfig) *Generator {
	return &Generator{
		shortLength: cfg.GetShortTokenLength(),
		longLength:  cfg.GetLongTokenLength(),
	}
}

// ShortToken returns a short random identifier, used for client IDs.
func (g *Generator) ShortToken() string {
	return randomHex(g.shortLength)
}

// LongToken returns a long random identifier, used for client secrets,
// authorization codes, and token strings.
func (g *Generator) LongToken() string {
	return randomHex(g.longLength)
}

// randomHex returns n hex characters of randomness. For odd n the extra
// nibble is dropped.
func randomHex(n int) string {
	buf := make([]byte, (n+1)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; if the OS entropy
		// source is broken there is nothing sensible to issue.
		panic("tokengen: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)[:n]
}
