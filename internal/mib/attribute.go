package mib

import (
	"github.com/bbf/onusim/internal/datum"
)

// Attribute describes one numbered, named attribute of a MIB class:
// its access rule, mandatory/optional requirement, and its Datum data
// in fixed order. Number 0 is always the ME-instance selector; numbers
// 1..16 are user attributes addressable via the 16-bit attribute mask.
type Attribute struct {
	Number      int
	Name        string
	Description string
	Access      Access
	Requirement Requirement
	Data        []*datum.Datum
}

// Mask is this attribute's bit within a 16-bit attribute mask:
// bit (16 - number) selects attribute number.
func (a *Attribute) Mask() uint16 {
	if a.Number == 0 || a.Number > 16 {
		return 0
	}
	return 1 << uint(16-a.Number)
}

// IsTable reports whether this attribute's data is a single Table Datum.
func (a *Attribute) IsTable() bool {
	return len(a.Data) == 1 && a.Data[0].Kind == datum.KindTable
}

// EncodedSize returns the number of bytes values would occupy when
// encoded against this attribute's Data sequence.
func (a *Attribute) EncodedSize(values []datum.Value) int {
	size := 0
	for i, d := range a.Data {
		var v datum.Value
		if i < len(values) {
			v = values[i]
		}
		size += len(d.Encode(v))
	}
	return size
}

// Encode renders values (one per Datum in a.Data, in order) as bytes.
func (a *Attribute) Encode(values []datum.Value) []byte {
	var buf []byte
	for i, d := range a.Data {
		var v datum.Value
		if i < len(values) {
			v = values[i]
		}
		buf = append(buf, d.Encode(v)...)
	}
	return buf
}

// Decode reads len(a.Data) values from buf starting at offset, returning
// the decoded values and the updated offset.
func (a *Attribute) Decode(buf []byte, offset int) ([]datum.Value, int, error) {
	values := make([]datum.Value, 0, len(a.Data))
	for _, d := range a.Data {
		v, next, err := d.Decode(buf, offset)
		if err != nil {
			return values, next, err
		}
		values = append(values, v)
		offset = next
	}
	return values, offset, nil
}

// isNumeric reports whether key is a decimal-digit string, in which case
// it is treated as an attribute/class number rather than a name (per the
// name-or-number disambiguation rule).
func isNumeric(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func normalizeAccessFilter(filters []Access) map[Access]bool {
	if len(filters) == 0 {
		return nil
	}
	m := make(map[Access]bool, len(filters))
	for _, f := range filters {
		m[f] = true
	}
	return m
}
