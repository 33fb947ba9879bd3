// Package features answers "is capability X enabled" for the process-wide
// feature set loaded from configuration. The set never changes after start.
package features

// Capability names understood by the registration and login flows.
const (
	// Close disables registration unless Invite is also enabled.
	Close = "close"
	// Invite requires a valid invite code to register.
	Invite = "invite"
	// TwoFactor requires a second-factor secret to register.
	TwoFactor = "2fa"
)

// Set is an immutable set of enabled capability names.
type Set struct {
	enabled map[string]struct{}
	names   []string
}

// NewSet builds a Set from the configured names. Duplicates are ignored.
func NewSet(names ...string) Set {
	s := Set{enabled: make(map[string]struct{}, len(names)), names: make([]string, 0, len(names))}
	for _, n := range names {
		if _, dup := s.enabled[n]; dup {
			continue
		}
		s.enabled[n] = struct{}{}
		s.names = append(s.names, n)
	}
	return s
}

// Has reports whether name is enabled.
func (s Set) Has(name string) bool {
	_, ok := s.enabled[name]
	return ok
}

// Names returns the enabled names in configuration order.
func (s Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
