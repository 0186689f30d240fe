package mib

import (
	"testing"

	"github.com/bbf/onusim/internal/datum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClass() *Class {
	c := NewClass(256, "OnuG", "ONU-G")
	c.AddAttribute(&Attribute{Number: 0, Name: "me_inst", Access: R, Requirement: Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0)}})
	c.AddAttribute(&Attribute{Number: 1, Name: "vendor_id", Access: R, Requirement: Mandatory,
		Data: []*datum.Datum{datum.NewBytes(4, nil)}})
	c.AddAttribute(&Attribute{Number: 6, Name: "battery_backup", Access: RW, Requirement: Optional,
		Data: []*datum.Datum{datum.NewBool(1, false)}})
	c.WithActions(Get, Set, MibReset)
	return c
}

func TestAttrNumberOrNameLookup(t *testing.T) {
	c := testClass()
	assert.Equal(t, c.AttrByNumber(6), c.Attr("6"))
	assert.Equal(t, c.AttrByNumber(6), c.Attr("battery_backup"))
	assert.Nil(t, c.Attr("nonexistent"))
}

func TestMaskComputation(t *testing.T) {
	c := testClass()
	attr := c.Attr("battery_backup")
	require.NotNil(t, attr)
	assert.Equal(t, uint16(1<<(16-6)), attr.Mask())
}

func TestAttrNamesFilteredByAccess(t *testing.T) {
	c := testClass()
	names := c.AttrNames(RW)
	assert.Contains(t, names, "battery_backup")
	assert.NotContains(t, names, "vendor_id")
}

func TestRegistryFreezeRejectsFurtherRegistration(t *testing.T) {
	r := NewRegistry()
	r.Register(testClass())
	r.Freeze()
	assert.Panics(t, func() {
		r.Register(NewClass(257, "Other", ""))
	})
}

func TestRegistryLookupByNumberOrName(t *testing.T) {
	r := NewRegistry()
	r.Register(testClass())
	c1, ok := r.Lookup("256")
	require.True(t, ok)
	c2, ok := r.Lookup("OnuG")
	require.True(t, ok)
	assert.Same(t, c1, c2)
}
