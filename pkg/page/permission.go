package page

import "strings"

// Permission is the set of data passes a keyword takes part in.
type Permission uint8

const (
	Populate Permission = 1 << iota
	Verify

	// NoPermission marks private and navigation keywords.
	NoPermission Permission = 0
)

// Has reports whether every flag of q is set on p.
func (p Permission) Has(q Permission) bool {
	return q != 0 && p&q == q
}

func (p Permission) String() string {
	var flags []string
	if p.Has(Populate) {
		flags = append(flags, "populate")
	}
	if p.Has(Verify) {
		flags = append(flags, "verify")
	}
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, "|")
}
