// Package scope defines the bitmask scope representation attached to grants
// and access tokens. Concrete scope values are an opaque ordered set of
// flags; Default is the first defined value.
package scope

import (
	"strings"

	"github.com/e3nupj2j1/Django-Oauth2-Provider/internal/errors"
)

// Scope is a bitmask of access flags.
type Scope int

const (
	Read  Scope = 1 << 1
	Write Scope = 1 << 2

	ReadWrite = Read | Write
)

var names = []struct {
	scope Scope
	name  string
}{
	{Read, "read"},
	{Write, "write"},
}

// Default returns the default scope for tokens issued without an explicit
// scope: the first defined value.
func Default() Scope {
	return names[0].scope
}

// Has reports whether s includes all flags of other.
func (s Scope) Has(other Scope) bool {
	return s&other == other
}

// Add returns s with the flags of other set.
func (s Scope) Add(other Scope) Scope {
	return s | other
}

// String renders s as space-separated scope names, e.g. "read write".
func (s Scope) String() string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if s.Has(n.scope) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, " ")
}

// Parse converts a space-separated scope string into a Scope. Unknown names
// return ErrInvalidScope. The empty string parses to zero.
func Parse(raw string) (Scope, error) {
	var s Scope
	for _, part := range strings.Fields(raw) {
		found := false
		for _, n := range names {
			if n.name == part {
				s = s.Add(n.scope)
				found = true
				break
			}
		}
		if !found {
			return 0, errors.Wrapf(errors.ErrInvalidScope, "unknown scope %q", part)
		}
	}
	return s, nil
}
