package database

import (
	"github.com/bbf/onusim/internal/mibdefs"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
)

// Reset implements serverhandle.Handle, grounded on Database.reset: only
// the ONU data instance (class 2, instance 0) may be reset, and doing so
// reloads the whole ONU back to its factory defaults.
func (d *Database) Reset(onuID uint16, meClass, meInst uint16) *serverhandle.Results {
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
	d.reload(onuID)
	return results
}
