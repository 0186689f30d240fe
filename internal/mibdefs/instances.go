package mibdefs

import "github.com/bbf/onusim/internal/datum"

// InstanceSpec is one pre-provisioned ME instance, grounded on
// database.py's `specs` tuple: every simulated ONU starts with the same
// fixed set of instances and initial attribute values.
type InstanceSpec struct {
	Class  int
	Inst   uint16
	Values map[string][]datum.Value
}

// DefaultInstances returns the instance specs every simulated ONU is
// seeded with at startup. extended selects the omcc_version value
// ONU2-G reports, per the server's --extended flag.
func DefaultInstances(extended bool) []InstanceSpec {
	omccVersion := uint64(OmccVersionBaseline)
	if extended {
		omccVersion = OmccVersionExtended
	}
	return []InstanceSpec{
		{
			Class: ClassONUG, Inst: 0,
			Values: map[string][]datum.Value{
				"vendor_id":     {datum.UintValue(1234)},
				"version":       {datum.StringValue("v2")},
				"serial_number": {datum.StringValue("abcdefgh"), datum.UintValue(5678)},
			},
		},
		{
			Class: ClassONU2G, Inst: 0,
			Values: map[string][]datum.Value{
				"omcc_version": {datum.UintValue(omccVersion)},
			},
		},
		{
			Class: ClassONUData, Inst: 0,
			Values: map[string][]datum.Value{
				"mib_data_sync": {datum.UintValue(0)},
			},
		},
		{Class: ClassSoftwareImage, Inst: 0x0000},
		{Class: ClassSoftwareImage, Inst: 0x0001},
		{Class: ClassSoftwareImage, Inst: 0x0100},
		{Class: ClassSoftwareImage, Inst: 0x0101},
		{Class: ClassANIG, Inst: 0},
		{
			Class: ClassONURemoteDebug, Inst: 0,
			Values: map[string][]datum.Value{
				"reply_table": {datum.TableValue{Rows: [][]byte{
					[]byte("row one of debug reply   "),
					[]byte("row two of debug reply   "),
				}}},
			},
		},
	}
}
