package mibdefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryRegistersEveryClass(t *testing.T) {
	r := NewRegistry()
	for _, number := range []int{ClassONUG, ClassONU2G, ClassONUData, ClassSoftwareImage, ClassANIG, ClassGEMPortNetworkCTP, ClassONURemoteDebug} {
		_, ok := r.ByNumber(number)
		assert.Truef(t, ok, "class %d not registered", number)
	}
}

func TestRegistryIsFrozen(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() {
		r.Register(onuG())
	})
}

func TestOnuGMandatoryAttributesPresent(t *testing.T) {
	r := NewRegistry()
	c, ok := r.ByNumber(ClassONUG)
	require.True(t, ok)
	for _, name := range []string{"vendor_id", "version", "serial_number", "traffic_management", "battery_backup", "admin_state"} {
		assert.NotNilf(t, c.AttrByName(name), "missing attribute %q", name)
	}
}

func TestDefaultInstancesSelectsOmccVersionByExtended(t *testing.T) {
	baseline := DefaultInstances(false)
	extended := DefaultInstances(true)

	findOnu2G := func(specs []InstanceSpec) InstanceSpec {
		for _, s := range specs {
			if s.Class == ClassONU2G {
				return s
			}
		}
		t.Fatal("ONU2-G spec not found")
		return InstanceSpec{}
	}

	b := findOnu2G(baseline).Values["omcc_version"][0]
	e := findOnu2G(extended).Values["omcc_version"][0]
	assert.Equal(t, "163", b.String())  // 0xa3
	assert.Equal(t, "180", e.String()) // 0xb4
}

func TestDefaultInstancesIncludesFourSoftwareImages(t *testing.T) {
	specs := DefaultInstances(false)
	count := 0
	for _, s := range specs {
		if s.Class == ClassSoftwareImage {
			count++
		}
	}
	assert.Equal(t, 4, count)
}

func TestOnuRemoteDebugHasTableAttribute(t *testing.T) {
	r := NewRegistry()
	c, ok := r.ByNumber(ClassONURemoteDebug)
	require.True(t, ok)
	attr := c.AttrByName("reply_table")
	require.NotNil(t, attr)
	assert.True(t, attr.IsTable())
}

func TestDefaultInstancesSeedsOnuRemoteDebugReplyTable(t *testing.T) {
	specs := DefaultInstances(false)
	for _, s := range specs {
		if s.Class != ClassONURemoteDebug {
			continue
		}
		values, ok := s.Values["reply_table"]
		require.True(t, ok)
		require.Len(t, values, 1)
		return
	}
	t.Fatal("ONU remote debug spec not found")
}
