package database

import (
	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
	log "github.com/sirupsen/logrus"
)

// getNextChunkLen is the baseline row-data chunk size used by Get Next,
// derived from the 32-byte baseline content area minus the response's
// 1-byte reason and 2-byte attr_mask.
const getNextChunkLen = 29

// GetNext implements serverhandle.Handle: retrieves one row-chunk of a
// table attribute previously latched by a baseline, single-attribute
// Get on the same class/instance. attrMask must select exactly one
// table attribute; seqNum selects which getNextChunkLen-byte slice of
// the latched rows to return. A class/instance with no latched
// snapshot returns reason 0b0100 (ReasonUnknownClass); a seqNum outside
// [0, max_seq_num] returns reason 0b0011 (ReasonParameterError). The
// final chunk is zero-padded to getNextChunkLen bytes.
//
// No obbaa_onusim file implements Get Next (no get_next.py under
// actions/, no GetNext class in get.py); this latch/consume state
// machine exists only in the OMCI message-plane description this
// simulator follows, not in the Python reference.
func (d *Database) GetNext(onuID uint16, meClass, meInst uint16, attrMask uint16, seqNum uint16) *serverhandle.Results {
	d.mu.Lock()
	defer d.mu.Unlock()

	results := &serverhandle.Results{}
	class, inst, reason := d.lookup(onuID, meClass, meInst)
	results.Reason = reason
	if class == nil || inst == nil {
		return results
	}

	indices := mib.MaskIndices(attrMask)
	if len(indices) != 1 {
		log.WithField("attr_mask", attrMask).Error("database: get-next attr_mask must select exactly one attribute")
		results.Reason = omcierrors.ReasonParameterError
		return results
	}
	attr := class.AttrByNumber(indices[0])
	if attr == nil || !attr.IsTable() {
		log.WithFields(log.Fields{"me_class": meClass, "attr": indices[0]}).
			Error("database: get-next attribute is not a table attribute")
		results.Reason = omcierrors.ReasonAttributeFailure
		results.OptAttrMask = mib.BitForAttr(indices[0])
		return results
	}

	key := instanceKey{class: int(meClass), inst: meInst}
	snap, ok := d.tableSnapshots[onuID][key]
	if !ok || snap.attrNumber != attr.Number {
		log.WithFields(log.Fields{"me_class": meClass, "me_inst": meInst, "attr": attr.Name}).
			Error("database: get-next with no latched table snapshot")
		results.Reason = omcierrors.ReasonUnknownClass
		return results
	}
	if seqNum > snap.maxSeqNum {
		log.WithFields(log.Fields{"me_class": meClass, "attr": attr.Name, "seq_num": seqNum, "max_seq_num": snap.maxSeqNum}).
			Error("database: get-next seq_num out of range")
		results.Reason = omcierrors.ReasonParameterError
		return results
	}

	chunk := make([]byte, getNextChunkLen)
	start := int(seqNum) * getNextChunkLen
	if start < len(snap.encoded) {
		end := start + getNextChunkLen
		if end > len(snap.encoded) {
			end = len(snap.encoded)
		}
		copy(chunk, snap.encoded[start:end])
	}

	results.AttrMask = attr.Mask()
	results.Attrs = []serverhandle.AttrValue{{
		Attr:   attr,
		Values: []datum.Value{datum.BytesValue(chunk)},
	}}
	return results
}
