package database

import (
	"sort"
	"time"

	"github.com/bbf/onusim/internal/mibdefs"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
	log "github.com/sirupsen/logrus"
)

// Upload implements serverhandle.Handle, grounded on Database.upload:
// only the ONU data instance may be uploaded, and doing so takes a
// snapshot of every instance on the ONU, packed into upload-next bodies
// by snapshotBodies.
func (d *Database) Upload(onuID uint16, meClass, meInst uint16, extended bool) *serverhandle.Results {
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

	bodies := d.snapshotBodies(onuID, extended)
	d.snapshots[onuID] = &snapshot{taken: true, extended: extended, latched: time.Now(), bodies: bodies}
	results.NumUploadNexts = uint16(len(bodies))
	return results
}

// snapshotBodies packs every instance on onuID into upload-next bodies,
// each a sequence of per-instance chunks whose total size (including a
// fixed per-chunk header allowance) stays within the transport's content
// length. Attributes are never split: an attribute too large to fit
// even an empty body is placed in a body of its own, which then exceeds
// that length (the seeded 50-byte reply_table does so in baseline mode).
func (d *Database) snapshotBodies(onuID uint16, extended bool) [][]serverhandle.Chunk {
	maxContentsLength := 32
	chunkHeaderLength := 6
	if extended {
		maxContentsLength = 1966
		chunkHeaderLength = 8
	}

	keys := make([]instanceKey, 0, len(d.instances[onuID]))
	for k := range d.instances[onuID] {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].class != keys[j].class {
			return keys[i].class < keys[j].class
		}
		return keys[i].inst < keys[j].inst
	})

	var bodies [][]serverhandle.Chunk
	var body []serverhandle.Chunk
	bodySize := 0

	for _, key := range keys {
		class, ok := d.registry.ByNumber(key.class)
		if !ok {
			continue
		}
		inst := d.instances[onuID][key]
		chunkSize := chunkHeaderLength
		var attrs []serverhandle.AttrValue
		var attrMask uint16
		for _, attr := range class.Attrs() {
			if attr.Number == 0 {
				continue
			}
			values, ok := inst[attr.Name]
			if !ok {
				continue
			}
			values = d.liveValues(uint16(key.class), attr.Name, values)
			attrSize := attr.EncodedSize(values)
			if bodySize+chunkSize+attrSize > maxContentsLength {
				if chunkSize > chunkHeaderLength {
					bodySize += chunkSize
					body = append(body, serverhandle.Chunk{
						MEClass: uint16(key.class), MEInst: key.inst,
						AttrMask: attrMask, Attrs: attrs,
					})
				}
				bodies = append(bodies, body)
				body = nil
				bodySize = 0
				chunkSize = chunkHeaderLength
				attrs = nil
				attrMask = 0
			}
			chunkSize += attrSize
			attrMask |= attr.Mask()
			attrs = append(attrs, serverhandle.AttrValue{Attr: attr, Values: values})
		}
		if len(attrs) > 0 {
			bodySize += chunkSize
			body = append(body, serverhandle.Chunk{
				MEClass: uint16(key.class), MEInst: key.inst,
				AttrMask: attrMask, Attrs: attrs,
			})
		}
	}
	if len(body) > 0 {
		bodies = append(bodies, body)
	}
	log.WithFields(log.Fields{"onu_id": onuID, "num_bodies": len(bodies)}).Debug("database: mib upload snapshot taken")
	return bodies
}
