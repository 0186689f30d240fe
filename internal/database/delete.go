package database

import (
	"github.com/bbf/onusim/internal/serverhandle"
	log "github.com/sirupsen/logrus"
)

// Delete implements serverhandle.Handle. Like Create, the original
// source's delete action was a stub that only bumped mib_data_sync; it
// is completed here to actually remove the instance.
func (d *Database) Delete(onuID uint16, meClass, meInst uint16) *serverhandle.Results {
	d.mu.Lock()
	defer d.mu.Unlock()

	results := &serverhandle.Results{}
	_, inst, reason := d.lookup(onuID, meClass, meInst)
	results.Reason = reason
	if inst == nil {
		return results
	}
	delete(d.instances[onuID], instanceKey{class: int(meClass), inst: meInst})
	d.bumpMibDataSync(onuID)
	log.WithFields(log.Fields{"me_class": meClass, "me_inst": meInst}).Info("database: instance deleted")
	return results
}
