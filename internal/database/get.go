package database

import (
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
	log "github.com/sirupsen/logrus"
)

// Get implements serverhandle.Handle, grounded on Database.get: unknown
// attributes contribute to opt_attr_mask (attribute failure), and in
// baseline mode any attribute that would overflow the 25-byte value area
// is skipped with a parameter-error reason, without aborting the rest of
// the mask (smaller, later attributes may still fit).
//
// Table attributes are a baseline-framing special case with no
// obbaa_onusim precedent (the original get() has no snapshot concept
// beyond MIB upload): requesting a table together with any other
// attribute is a parameter error with no attribute payload, and
// requesting a table alone latches its encoded bytes for Get Next to
// walk instead of returning them inline.
func (d *Database) Get(onuID uint16, meClass, meInst uint16, attrMask uint16, extended bool) *serverhandle.Results {
	d.mu.Lock()
	defer d.mu.Unlock()

	results := &serverhandle.Results{}
	class, inst, reason := d.lookup(onuID, meClass, meInst)
	results.Reason = reason
	if class == nil || inst == nil {
		return results
	}

	indices := mib.MaskIndices(attrMask)
	if !extended {
		if tableNumber, ok := tableAttrRequested(class, indices); ok {
			if len(indices) > 1 {
				results.Reason = omcierrors.ReasonParameterError
				return results
			}
			return d.getTable(onuID, meClass, meInst, class, inst, tableNumber)
		}
	}

	size := 0
	for _, n := range indices {
		attr := class.AttrByNumber(n)
		bit := mib.BitForAttr(n)
		switch {
		case attr == nil:
			log.WithFields(log.Fields{"me_class": meClass, "attr": n}).Debug("database: get targets unknown attribute")
			if results.Reason == omcierrors.ReasonSuccess || results.Reason == omcierrors.ReasonAttributeFailure {
				results.Reason = omcierrors.ReasonAttributeFailure
				results.OptAttrMask |= bit
			}
		default:
			values, ok := inst[attr.Name]
			if !ok {
				continue
			}
			values = d.liveValues(meClass, attr.Name, values)
			attrSize := attr.EncodedSize(values)
			if !extended && size+attrSize > 25 {
				log.WithFields(log.Fields{"me_class": meClass, "attr": attr.Name}).
					Debug("database: attribute too long for baseline message")
				results.Reason = omcierrors.ReasonParameterError
				continue
			}
			results.AttrMask |= bit
			results.Attrs = append(results.Attrs, serverhandle.AttrValue{Attr: attr, Values: values})
			size += attrSize
		}
	}
	return results
}

// tableAttrRequested reports whether any of indices names a table
// attribute of class, returning that attribute's number.
func tableAttrRequested(class *mib.Class, indices []int) (int, bool) {
	for _, n := range indices {
		if attr := class.AttrByNumber(n); attr != nil && attr.IsTable() {
			return n, true
		}
	}
	return 0, false
}

// getTable handles a baseline Get that selects exactly one table
// attribute: rather than return its (potentially huge) contents inline,
// it latches the encoded rows so Get Next can walk them in
// getNextChunkLen-byte slices.
func (d *Database) getTable(onuID uint16, meClass, meInst uint16, class *mib.Class, inst instance, attrNumber int) *serverhandle.Results {
	results := &serverhandle.Results{}
	attr := class.AttrByNumber(attrNumber)
	values, ok := inst[attr.Name]
	if !ok {
		results.Reason = omcierrors.ReasonAttributeFailure
		results.OptAttrMask = mib.BitForAttr(attrNumber)
		return results
	}
	encoded := attr.Encode(values)
	key := instanceKey{class: int(meClass), inst: meInst}
	d.tableSnapshots[onuID][key] = &tableSnapshot{
		attrNumber: attrNumber,
		encoded:    encoded,
		maxSeqNum:  tableMaxSeqNum(len(encoded)),
	}
	results.Reason = omcierrors.ReasonSuccess
	results.AttrMask = attr.Mask()
	return results
}

// tableMaxSeqNum returns the highest Get Next seq_num that returns a
// chunk of length bytes split into getNextChunkLen-byte slices.
func tableMaxSeqNum(length int) uint16 {
	if length == 0 {
		return 0
	}
	chunks := (length + getNextChunkLen - 1) / getNextChunkLen
	return uint16(chunks - 1)
}
