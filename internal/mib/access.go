package mib

// Access is an attribute's access mode as defined by G.988: Read,
// Write, Read-Write, Read-Write-set-by-Create, or Read-set-by-Create.
type Access string

const (
	R   Access = "R"
	W   Access = "W"
	RW  Access = "RW"
	RWC Access = "RWC"
	RC  Access = "RC"
)

// Writable reports whether a wire Set request may write this attribute.
func (a Access) Writable() bool {
	switch a {
	case W, RW, RWC:
		return true
	default:
		return false
	}
}

// SettableAtCreate reports whether a Create request may supply this
// attribute's value.
func (a Access) SettableAtCreate() bool {
	switch a {
	case RWC, RC:
		return true
	default:
		return false
	}
}

// Requirement is an attribute's mandatory/optional status.
type Requirement string

const (
	Mandatory Requirement = "M"
	Optional  Requirement = "O"
)
