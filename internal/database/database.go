// Package database implements the per-ONU MIB database (C4): the
// authoritative attribute store each simulated ONU instance owns,
// implementing serverhandle.Handle so the message plane (C3) can drive
// it without either package importing the other.
//
// Grounded on obbaa_onusim/database.py's Database class: one instance
// map per onu_id, a single mib_data_sync counter per ONU, and a latched
// upload snapshot per ONU with a 60-second expiry.
package database

import (
	"sync"
	"time"

	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/mibdefs"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
	log "github.com/sirupsen/logrus"
)

// instanceKey identifies one ME instance within a single ONU's database.
type instanceKey struct {
	class int
	inst  uint16
}

// instance is one ME instance's attribute values, by attribute name.
type instance map[string][]datum.Value

// snapshot is the latched state for one ONU's in-progress MIB upload.
type snapshot struct {
	taken    bool
	extended bool
	latched  time.Time
	bodies   [][]serverhandle.Chunk
}

const snapshotExpiry = 60 * time.Second

// tableSnapshot is the latched byte image of one table attribute, taken
// by a baseline single-attribute Get and consumed chunk by chunk through
// Get Next. A class/instance has at most one latched table at a time;
// latching a new one (even for a different attribute) replaces it.
type tableSnapshot struct {
	attrNumber int
	encoded    []byte
	maxSeqNum  uint16
}

// Database holds every simulated ONU's MIB instances behind a single
// mutex, matching the concurrency model's "one mutex per Database"
// rule: OMCI processing for a given server is strictly serialized.
type Database struct {
	mu        sync.Mutex
	registry  *mib.Registry
	optional  bool
	extended  bool
	startup   time.Time
	instances      map[uint16]map[instanceKey]instance
	snapshots      map[uint16]*snapshot
	tableSnapshots map[uint16]map[instanceKey]*tableSnapshot
	alarms         map[uint16]map[instanceKey][28]byte
	alarmWalk      map[uint16][]serverhandle.AlarmEntry
}

// New builds a Database seeded with the default instance set for every
// ONU id in [first, last], inclusive. optional controls whether each
// ME's optional (non-mandatory) attributes are materialized with their
// default values alongside the mandatory ones; database.py's newer
// behavior defaults this true. extended controls the omcc_version
// value ONU2-G instances report.
func New(registry *mib.Registry, first, last uint16, optional, extended bool) *Database {
	d := &Database{
		registry:       registry,
		optional:       optional,
		extended:       extended,
		startup:        time.Now(),
		instances:      make(map[uint16]map[instanceKey]instance),
		snapshots:      make(map[uint16]*snapshot),
		tableSnapshots: make(map[uint16]map[instanceKey]*tableSnapshot),
		alarms:         make(map[uint16]map[instanceKey][28]byte),
		alarmWalk:      make(map[uint16][]serverhandle.AlarmEntry),
	}
	for onuID := first; ; onuID++ {
		d.reload(onuID)
		if onuID == last {
			break
		}
	}
	return d
}

// reload (re)populates onuID's instances from the default instance
// specs and clears its snapshot, mirroring Database.__reload.
func (d *Database) reload(onuID uint16) {
	insts := make(map[instanceKey]instance)
	for _, spec := range mibdefs.DefaultInstances(d.extended) {
		class, ok := d.registry.ByNumber(spec.Class)
		if !ok {
			log.WithField("class", spec.Class).Error("database: default instance spec names unknown class")
			continue
		}
		key := instanceKey{class: spec.Class, inst: spec.Inst}
		inst := make(instance)
		for _, attr := range class.Attrs() {
			if attr.Number == 0 {
				continue
			}
			if values, ok := spec.Values[attr.Name]; ok {
				inst[attr.Name] = values
				continue
			}
			if attr.Requirement != mib.Mandatory && !d.optional {
				continue
			}
			defaults := make([]datum.Value, len(attr.Data))
			for i, dm := range attr.Data {
				defaults[i] = dm.DefaultValue()
			}
			inst[attr.Name] = defaults
		}
		insts[key] = inst
	}
	d.instances[onuID] = insts
	d.snapshots[onuID] = &snapshot{}
	d.tableSnapshots[onuID] = make(map[instanceKey]*tableSnapshot)
	d.alarms[onuID] = make(map[instanceKey][28]byte)
	delete(d.alarmWalk, onuID)
}

// lookup resolves (meClass, meInst) for onuID, returning the class, the
// instance (nil if not found) and the reason code __instance would set.
func (d *Database) lookup(onuID uint16, meClass, meInst uint16) (*mib.Class, instance, omcierrors.Reason) {
	class, ok := d.registry.ByNumber(int(meClass))
	if !ok {
		log.WithField("me_class", meClass).Error("database: class not implemented")
		return nil, nil, omcierrors.ReasonUnknownClass
	}
	insts := d.instances[onuID]
	inst, ok := insts[instanceKey{class: int(meClass), inst: meInst}]
	if !ok {
		log.WithFields(log.Fields{"me_class": meClass, "me_inst": meInst}).
			Error("database: instance not instantiated")
		return class, nil, omcierrors.ReasonUnknownInstance
	}
	return class, inst, omcierrors.ReasonSuccess
}

// onuDataInstance returns onuID's ONU-data #0 instance, which always
// exists once the database has been constructed.
func (d *Database) onuDataInstance(onuID uint16) instance {
	return d.instances[onuID][instanceKey{class: mibdefs.ClassONUData, inst: 0}]
}

// liveValues substitutes a computed value for attributes the original
// source models as a lambda rather than a frozen instance value:
// ONU2-G's sys_up_time, a hundredths-of-a-second counter since the
// database was started (database.py specs, the
// "lambda: int(100.0*(time.time()-startup_time))" instance value).
// Every other attribute returns stored unchanged.
func (d *Database) liveValues(meClass uint16, name string, stored []datum.Value) []datum.Value {
	if int(meClass) == mibdefs.ClassONU2G && name == "sys_up_time" {
		return []datum.Value{datum.UintValue(uint64(time.Since(d.startup).Seconds() * 100))}
	}
	return stored
}

// bumpMibDataSync increments onuID's mib_data_sync counter, skipping
// zero: 254 -> 255 -> 1, never landing back on 0.
func (d *Database) bumpMibDataSync(onuID uint16) {
	inst := d.onuDataInstance(onuID)
	if inst == nil {
		return
	}
	current := uint64(0)
	if v, ok := inst["mib_data_sync"]; ok && len(v) == 1 {
		if uv, ok := v[0].(datum.UintValue); ok {
			current = uint64(uv)
		}
	}
	next := current + 1
	if current >= 255 {
		next = 1
	}
	inst["mib_data_sync"] = []datum.Value{datum.UintValue(next)}
	log.WithFields(log.Fields{"onu_id": onuID, "mib_data_sync": next}).Info("database: mib data sync updated")
}
