package database

import (
	"sort"

	"github.com/bbf/onusim/internal/mibdefs"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
	log "github.com/sirupsen/logrus"
)

// GetAllAlarms implements serverhandle.Handle: it is directed at the ONU
// data instance and latches the current set of non-zero alarm bitmaps
// across every instance on the ONU, to be walked via
// GetAllAlarmsNext. retrieval_mode 0 reports every current alarm; mode 1
// is meant to report only alarms raised since the last MIB upload, which
// this simulator does not distinguish from the full set.
func (d *Database) GetAllAlarms(onuID uint16, meClass, meInst uint16, retrievalMode byte) *serverhandle.Results {
	d.mu.Lock()
	defer d.mu.Unlock()

	results := &serverhandle.Results{}
	_, inst, reason := d.lookup(onuID, meClass, meInst)
	results.Reason = reason
	if inst == nil {
		return results
	}
	if int(meClass) != mibdefs.ClassONUData {
		results.Reason = omcierrors.ReasonUnknownClass
		return results
	}

	keys := make([]instanceKey, 0, len(d.alarms[onuID]))
	for k, bitmap := range d.alarms[onuID] {
		if bitmap != ([28]byte{}) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].class != keys[j].class {
			return keys[i].class < keys[j].class
		}
		return keys[i].inst < keys[j].inst
	})
	walk := make([]serverhandle.AlarmEntry, 0, len(keys))
	for _, k := range keys {
		walk = append(walk, serverhandle.AlarmEntry{
			MEClass: uint16(k.class), MEInst: k.inst, Bitmap: d.alarms[onuID][k],
		})
	}
	d.alarmWalk[onuID] = walk
	results.NumAlarmNexts = uint16(len(walk))
	return results
}

// GetAllAlarmsNext implements serverhandle.Handle: returns the seq_num'th
// entry of the walk latched by the most recent GetAllAlarms call.
func (d *Database) GetAllAlarmsNext(onuID uint16, meClass, meInst uint16, seqNum uint16) *serverhandle.Results {
	d.mu.Lock()
	defer d.mu.Unlock()

	results := &serverhandle.Results{}
	_, inst, reason := d.lookup(onuID, meClass, meInst)
	results.Reason = reason
	if inst == nil {
		return results
	}
	walk := d.alarmWalk[onuID]
	if int(seqNum) >= len(walk) {
		log.WithFields(log.Fields{"onu_id": onuID, "seq_num": seqNum, "num_alarms": len(walk)}).
			Error("database: get-all-alarms-next seq_num out of range")
		results.Reason = omcierrors.ReasonProcessingError
		return results
	}
	results.AlarmEntry = walk[seqNum]
	return results
}

// SetAlarm implements serverhandle.Handle: the inject_alarm side channel
// that lets an operator raise or clear an alarm bit out of band, for
// the endpoint to report via an autonomous AlarmNotification.
func (d *Database) SetAlarm(onuID uint16, meClass, meInst uint16, bitmap [28]byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.alarms[onuID] == nil {
		d.alarms[onuID] = make(map[instanceKey][28]byte)
	}
	d.alarms[onuID][instanceKey{class: int(meClass), inst: meInst}] = bitmap
}
