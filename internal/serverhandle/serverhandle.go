// Package serverhandle defines the narrow interface that connects the
// message codec (C3) to the MIB database (C4) without the two packages
// importing each other directly — the "cyclic module references" design
// note's resolution. *database.Database implements Handle, and the
// Endpoint (C5) passes its Database to each decoded message's Process.
package serverhandle

import (
	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
)

// AttrValue pairs an attribute definition with its decoded/materialized
// values (one value per Datum in the attribute's data).
type AttrValue struct {
	Attr   *mib.Attribute
	Values []datum.Value
}

// Chunk is one instance's worth of attribute values within an upload
// body, carrying the class/instance the chunk belongs to so that a
// chunk opening a new body can retain it from where the previous body
// left off.
type Chunk struct {
	MEClass  uint16
	MEInst   uint16
	AttrMask uint16
	Attrs    []AttrValue
}

// Body is one MIB-upload-next response payload: an ordered sequence of
// chunks whose total encoded size does not exceed the transport's
// max contents length, except where a single attribute is too large for
// an empty body (see database.snapshotBodies).
type Body struct {
	Chunks []Chunk
}

// AlarmEntry is one (class, instance, bitmap) triple returned by
// Get-all-alarms-next.
type AlarmEntry struct {
	MEClass uint16
	MEInst  uint16
	Bitmap  [28]byte
}

// Results is the uniform outcome of every database operation: reason
// plus whichever of the other fields the particular operation
// populates.
type Results struct {
	Reason         omcierrors.Reason
	AttrMask       uint16
	OptAttrMask    uint16
	AttrExecMask   uint16
	Attrs          []AttrValue
	NumUploadNexts uint16
	Body           Body
	AlarmEntry     AlarmEntry
	NumAlarmNexts  uint16
}

// Handle is the set of MIB database operations a decoded Message needs
// in order to process itself and build a response.
type Handle interface {
	Set(onuID uint16, meClass, meInst uint16, attrMask uint16, values map[string][]datum.Value, extended, checkAccess bool) *Results
	Get(onuID uint16, meClass, meInst uint16, attrMask uint16, extended bool) *Results
	GetNext(onuID uint16, meClass, meInst uint16, attrMask uint16, seqNum uint16) *Results
	Create(onuID uint16, meClass, meInst uint16, values map[string][]datum.Value) *Results
	Delete(onuID uint16, meClass, meInst uint16) *Results
	Reset(onuID uint16, meClass, meInst uint16) *Results
	Upload(onuID uint16, meClass, meInst uint16, extended bool) *Results
	UploadNext(onuID uint16, meClass, meInst uint16, seqNum uint16, extended bool) *Results
	GetAllAlarms(onuID uint16, meClass, meInst uint16, retrievalMode byte) *Results
	GetAllAlarmsNext(onuID uint16, meClass, meInst uint16, seqNum uint16) *Results
	SetAlarm(onuID uint16, meClass, meInst uint16, bitmap [28]byte)
}
