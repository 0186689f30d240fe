package database

import (
	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
	log "github.com/sirupsen/logrus"
)

// Set implements serverhandle.Handle, grounded on Database.set: attempts
// to set every masked attribute, reporting an attribute failure (and
// building opt_attr_mask) for attributes that don't exist on the class,
// and simply refusing (parameter error) any attempt to touch a
// non-writable attribute. A successful write to any attribute bumps the
// ONU's mib_data_sync counter once. checkAccess is false for the REST
// side channel (rest_api.py's set_me calls Database.set with
// check_access=False), which may write any existing attribute
// regardless of its declared access mode.
func (d *Database) Set(onuID uint16, meClass, meInst uint16, attrMask uint16, values map[string][]datum.Value, extended, checkAccess bool) *serverhandle.Results {
	d.mu.Lock()
	defer d.mu.Unlock()

	results := &serverhandle.Results{}
	class, inst, reason := d.lookup(onuID, meClass, meInst)
	results.Reason = reason
	if class == nil || inst == nil {
		return results
	}

	updated := false
	for _, n := range mib.MaskIndices(attrMask) {
		attr := class.AttrByNumber(n)
		bit := mib.BitForAttr(n)
		switch {
		case attr == nil:
			log.WithFields(log.Fields{"me_class": meClass, "attr": n}).Debug("database: set targets unknown attribute")
			if results.Reason == omcierrors.ReasonSuccess || results.Reason == omcierrors.ReasonAttributeFailure {
				results.Reason = omcierrors.ReasonAttributeFailure
				results.OptAttrMask |= bit
			}
		case checkAccess && !attr.Access.Writable():
			log.WithFields(log.Fields{"me_class": meClass, "attr": attr.Name}).Warn("database: set targets non-writable attribute")
			results.Reason = omcierrors.ReasonParameterError
		default:
			newValues, ok := values[attr.Name]
			if !ok {
				continue
			}
			if !sameValues(inst[attr.Name], newValues) {
				inst[attr.Name] = newValues
				updated = true
				log.WithFields(log.Fields{"me_class": meClass, "me_inst": meInst, "attr": attr.Name}).
					Info("database: attribute set")
			}
		}
	}

	if updated {
		d.bumpMibDataSync(onuID)
	}
	return results
}

func sameValues(a, b []datum.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if a[i].String() != b[i].String() {
			return false
		}
	}
	return true
}
