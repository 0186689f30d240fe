// Package mibdefs declares the concrete G.988 managed-entity classes this
// simulator implements, grounded on obbaa_onusim/mibs/*.py: ONU-G,
// ONU2-G, ONU data, Software image, ANI-G, GEM Port Network CTP and
// ONU remote debug.
package mibdefs

import (
	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
)

// OmccVersionBaseline and OmccVersionExtended are the two omcc_version
// values database.py picks between depending on whether the server
// advertises extended-message support.
const (
	OmccVersionBaseline = 0xa3
	OmccVersionExtended = 0xb4
)

const (
	ClassONUG              = 256
	ClassONU2G             = 257
	ClassONUData           = 2
	ClassSoftwareImage     = 7
	ClassANIG              = 263
	ClassGEMPortNetworkCTP = 268
	ClassONURemoteDebug    = 158
)

// NewRegistry builds and freezes the registry of every class this
// simulator supports.
func NewRegistry() *mib.Registry {
	r := mib.NewRegistry()
	r.Register(onuG())
	r.Register(onu2G())
	r.Register(onuData())
	r.Register(softwareImage())
	r.Register(aniG())
	r.Register(gemPortNetworkCTP())
	r.Register(onuRemoteDebug())
	r.Freeze()
	return r
}

func onuG() *mib.Class {
	c := mib.NewClass(ClassONUG, "ONU-G", "Represents the ONU as equipment")
	c.AddAttribute(&mib.Attribute{
		Number: 0, Name: "me_inst", Description: "Managed entity instance",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0).WithFixed(datum.UintValue(0))},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 1, Name: "vendor_id", Description: "Vendor ID",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(4, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 2, Name: "version", Description: "Version",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewString(14, "v1")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 3, Name: "serial_number", Description: "Serial number",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewString(4, ""), datum.NewNumber(4, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 4, Name: "traffic_management", Description: "Traffic management option",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewEnum(1, []string{
			"priority-controlled", "rate-controlled", "priority-and-rate-controlled",
		}, "")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 6, Name: "battery_backup", Description: "Battery backup",
		Access: mib.RW, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewBool(1, false)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 7, Name: "admin_state", Description: "Administrative state",
		Access: mib.RW, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewEnum(1, []string{"unlock", "lock"}, "")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 8, Name: "oper_state", Description: "Operational state",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewEnum(1, []string{"enabled", "disabled"}, "")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 9, Name: "survival_time", Description: "ONU survival time",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(1, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 10, Name: "logical_onu_id", Description: "Logical ONU ID",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewString(24, "")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 11, Name: "logical_password", Description: "Logical password",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewString(12, "")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 12, Name: "credentials_status", Description: "Credentials status",
		Access: mib.RW, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewEnum(1, []string{
			"initial", "successful", "loid-error", "password-error", "duplicate-loid",
		}, "")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 13, Name: "extended_tc_options", Description: "Extended TC-layer options",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewBits(1, []string{"annex-c", "annex-d"})},
	})
	c.WithActions(mib.Get, mib.Set, mib.MibReset)
	c.WithChange(8).WithChange(10).WithChange(11)
	c.WithAlarm(0, "equipment").WithAlarm(1, "powering")
	return c
}

func onu2G() *mib.Class {
	connValues := []string{"N:1", "1:M", "1:P", "N:M", "1:MP", "N:P", "N:MP"}
	c := mib.NewClass(ClassONU2G, "ONU2-G", "Contains additional attributes associated with a PON ONU")
	c.AddAttribute(&mib.Attribute{
		Number: 0, Name: "me_inst", Description: "Managed entity instance",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0).WithFixed(datum.UintValue(0))},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 1, Name: "equipment_id", Description: "Equipment ID",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewString(20, "")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 2, Name: "omcc_version", Description: "OMCC version",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(1, OmccVersionExtended)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 3, Name: "vendor_product_code", Description: "Vendor product code",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewString(2, "")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 4, Name: "security_capability", Description: "Security capability",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewEnum(1, []string{"reserved", "aes-128"}, "aes-128")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 5, Name: "security_mode", Description: "Security mode",
		Access: mib.RW, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewEnum(1, []string{"reserved", "aes-128"}, "aes-128")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 6, Name: "total_priority_queue_number", Description: "Total priority queue number",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 7, Name: "total_traf_sched_number", Description: "Total traffic scheduler number",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(1, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 9, Name: "total_gem_port_number", Description: "Total GEM port-ID number",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 10, Name: "sys_up_time", Description: "SysUpTime",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(4, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 11, Name: "connectivity_capability", Description: "Connectivity capability",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewBits(2, connValues)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 12, Name: "connectivity_mode", Description: "Current connectivity mode",
		Access: mib.RW, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewEnum(1, connValues, "")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 13, Name: "qos_config_flexibility", Description: "QoS configuration flexibility",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewBits(2, []string{"1", "2", "3", "4", "5", "6"})},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 14, Name: "priority_queue_scale_factor", Description: "Priority queue scale factor",
		Access: mib.RW, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.WithActions(mib.Get, mib.Set)
	c.WithChange(2)
	return c
}

func onuData() *mib.Class {
	c := mib.NewClass(ClassONUData, "ONU data", "Models the MIB itself")
	c.AddAttribute(&mib.Attribute{
		Number: 0, Name: "me_inst", Description: "Managed entity instance",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0).WithFixed(datum.UintValue(0))},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 1, Name: "mib_data_sync", Description: "MIB data sync",
		Access: mib.RW, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(1, 0)},
	})
	c.WithActions(mib.Get, mib.Set, mib.GetAllAlarms, mib.GetAllAlarmsNext,
		mib.MibReset, mib.MibUpload, mib.MibUploadNext)
	return c
}

func softwareImage() *mib.Class {
	c := mib.NewClass(ClassSoftwareImage, "Software image", "Models an executable software image")
	c.AddAttribute(&mib.Attribute{
		Number: 0, Name: "me_inst", Description: "Managed entity instance",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 1, Name: "version", Description: "Version",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewString(14, "")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 2, Name: "is_committed", Description: "Is committed",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewBool(1, false)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 3, Name: "is_active", Description: "Is active",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewBool(1, false)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 4, Name: "is_valid", Description: "Is valid",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewBool(1, false)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 5, Name: "product_code", Description: "Product code",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewString(25, "")},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 6, Name: "image_hash", Description: "Image hash",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewBytes(16, nil)},
	})
	c.WithActions(mib.Get)
	c.WithChange(1).WithChange(2).WithChange(3).WithChange(4).WithChange(5).WithChange(6)
	return c
}

func aniG() *mib.Class {
	c := mib.NewClass(ClassANIG, "ANI-G", "Represents a physical PON interface")
	c.AddAttribute(&mib.Attribute{
		Number: 0, Name: "me_inst", Description: "Managed entity instance",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(1, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 1, Name: "sr_indication", Description: "SR indication",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(1, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 2, Name: "total_tcont_number", Description: "Total TCONT number",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 3, Name: "gem_block_length", Description: "GEM block length",
		Access: mib.RW, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 48)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 4, Name: "piggy_back_dba_reporting", Description: "Piggyback DBA reporting",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(1, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 6, Name: "sf_threshold", Description: "Signal fail threshold",
		Access: mib.RW, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(1, 5)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 7, Name: "sd_threshold", Description: "Signal degrade threshold",
		Access: mib.RW, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(1, 9)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 8, Name: "arc", Description: "ARC",
		Access: mib.RW, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(1, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 9, Name: "arc_interval", Description: "ARC interval",
		Access: mib.RW, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(1, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 10, Name: "optical_signal_level", Description: "Optical signal level",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 13, Name: "onu_response_time", Description: "ONU response time",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 14, Name: "transmit_optical_level", Description: "Transmit optical level",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.WithActions(mib.Get, mib.Set)
	c.WithAlarm(0, "rx-power-low").WithAlarm(1, "rx-power-high").
		WithAlarm(2, "signal-fail").WithAlarm(3, "signal-degraded").
		WithAlarm(4, "tx-power-low").WithAlarm(5, "tx-power-high").
		WithAlarm(6, "tx-bias-high")
	return c
}

func gemPortNetworkCTP() *mib.Class {
	c := mib.NewClass(ClassGEMPortNetworkCTP, "GEM_PORT_NET_CTP", "GEM Port Network CTP")
	c.AddAttribute(&mib.Attribute{
		Number: 0, Name: "me_inst", Description: "Managed entity instance",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 1, Name: "port_id", Description: "Port ID",
		Access: mib.RWC, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 2, Name: "tcont_ptr", Description: "TCONT pointer",
		Access: mib.RWC, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 3, Name: "direction", Description: "Direction",
		Access: mib.RWC, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(1, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 4, Name: "traffic_mgmt_ptr_us", Description: "Traffic management pointer for upstream",
		Access: mib.RWC, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 5, Name: "traffic_desc_prof_ptr_us", Description: "Traffic descriptor profile pointer for upstream",
		Access: mib.RWC, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 6, Name: "uni_count", Description: "UNI counter",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(1, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 7, Name: "pri_queue_ptr_ds", Description: "Priority queue pointer for downstream",
		Access: mib.RWC, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 8, Name: "encryption_state", Description: "Encryption state",
		Access: mib.R, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(1, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 9, Name: "traffic_desc_prof_ptr_ds", Description: "Traffic descriptor profile pointer for downstream",
		Access: mib.RWC, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 10, Name: "encryption_key_ring", Description: "Encryption key ring",
		Access: mib.RWC, Requirement: mib.Optional,
		Data: []*datum.Datum{datum.NewEnum(1, []string{
			"no_encryption", "unicast_encryption_both_dir",
			"broadcast_encryption", "unicast_encryption_ds",
		}, "")},
	})
	c.WithActions(mib.Get, mib.Set, mib.Create, mib.Delete)
	c.WithAlarm(5, "end-to-end_loss_of_continuity")
	return c
}

// onuRemoteDebug is G.988 9.3.11, the only ME in this simulator's
// schema carrying a Table attribute (reply_table); it exists to
// exercise the Get-next row-by-row table retrieval path.
func onuRemoteDebug() *mib.Class {
	c := mib.NewClass(ClassONURemoteDebug, "ONU_Remote_Debug", "Debug command and reply exchange")
	c.AddAttribute(&mib.Attribute{
		Number: 0, Name: "me_inst", Description: "Managed entity instance",
		Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 1, Name: "command_format", Description: "Command format",
		Access: mib.RWC, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(1, 0)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 2, Name: "command_onu", Description: "Command to send to the ONU",
		Access: mib.RWC, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewBytes(24, nil)},
	})
	c.AddAttribute(&mib.Attribute{
		Number: 3, Name: "reply_table", Description: "Reply table",
		Access: mib.RW, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewTable(25)},
	})
	c.WithActions(mib.Get, mib.Set, mib.Create, mib.Delete, mib.GetNext)
	return c
}
