package database

import (
	"time"

	"github.com/bbf/onusim/internal/mibdefs"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
	log "github.com/sirupsen/logrus"
)

// UploadNext implements serverhandle.Handle, grounded on
// Database.upload_next: returns the latched snapshot's body at seq_num,
// failing if no snapshot was taken, it has expired (60s), its
// baseline/extended mode doesn't match the request, or seq_num is out of
// range.
func (d *Database) UploadNext(onuID uint16, meClass, meInst uint16, seqNum uint16, extended bool) *serverhandle.Results {
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

	snap := d.snapshots[onuID]
	if snap == nil || !snap.taken {
		log.WithField("onu_id", onuID).Warn("database: upload-next with no snapshot taken")
		results.Reason = omcierrors.ReasonProcessingError
		return results
	}
	if time.Since(snap.latched) > snapshotExpiry {
		log.WithField("onu_id", onuID).Warn("database: upload-next snapshot has expired")
		results.Reason = omcierrors.ReasonProcessingError
		return results
	}
	if extended != snap.extended {
		log.WithFields(log.Fields{"onu_id": onuID, "snapshot_extended": snap.extended, "extended": extended}).
			Error("database: upload-next mode mismatch against the latched snapshot")
		results.Reason = omcierrors.ReasonProcessingError
		return results
	}
	if int(seqNum) >= len(snap.bodies) {
		log.WithFields(log.Fields{"onu_id": onuID, "seq_num": seqNum, "num_bodies": len(snap.bodies)}).
			Error("database: upload-next seq_num out of range")
		results.Reason = omcierrors.ReasonProcessingError
		return results
	}
	results.Body = serverhandle.Body{Chunks: snap.bodies[seqNum]}
	return results
}
