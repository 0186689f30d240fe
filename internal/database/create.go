package database

import (
	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
	log "github.com/sirupsen/logrus"
)

// Create implements serverhandle.Handle. The original source's create
// action was a stub ("need to implement the create handler"); here it is
// completed to actually instantiate a new ME, rejecting a class that
// doesn't exist, an instance that already exists, and attributes that
// aren't settable at create time.
func (d *Database) Create(onuID uint16, meClass, meInst uint16, values map[string][]datum.Value) *serverhandle.Results {
	d.mu.Lock()
	defer d.mu.Unlock()

	results := &serverhandle.Results{}
	class, ok := d.registry.ByNumber(int(meClass))
	if !ok {
		log.WithField("me_class", meClass).Error("database: create targets unknown class")
		results.Reason = omcierrors.ReasonUnknownClass
		return results
	}
	key := instanceKey{class: int(meClass), inst: meInst}
	insts := d.instances[onuID]
	if _, exists := insts[key]; exists {
		log.WithFields(log.Fields{"me_class": meClass, "me_inst": meInst}).
			Error("database: create targets an instance that already exists")
		results.Reason = omcierrors.ReasonInstanceExists
		return results
	}

	for name := range values {
		if class.Attr(name) == nil {
			log.WithFields(log.Fields{"me_class": meClass, "attr": name}).
				Error("database: create names an attribute not in the schema")
			results.Reason = omcierrors.ReasonUnknownInstance
			return results
		}
	}

	inst := make(instance)
	var attrExecMask uint16
	for _, attr := range class.Attrs() {
		if attr.Number == 0 {
			continue
		}
		if vals, ok := values[attr.Name]; ok {
			if !attr.Access.SettableAtCreate() {
				log.WithFields(log.Fields{"me_class": meClass, "attr": attr.Name}).
					Warn("database: create supplied a value for a non-creatable attribute")
				attrExecMask |= attr.Mask()
				continue
			}
			inst[attr.Name] = vals
			continue
		}
		if attr.Requirement == mib.Mandatory {
			defaults := make([]datum.Value, len(attr.Data))
			for i, dm := range attr.Data {
				defaults[i] = dm.DefaultValue()
			}
			inst[attr.Name] = defaults
		}
	}
	if attrExecMask != 0 {
		results.Reason = omcierrors.ReasonAttributeFailure
		results.AttrExecMask = attrExecMask
		return results
	}

	insts[key] = inst
	d.bumpMibDataSync(onuID)
	log.WithFields(log.Fields{"me_class": meClass, "me_inst": meInst}).Info("database: instance created")
	return results
}
