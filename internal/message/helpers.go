package message

import (
	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
)

func toUint(v datum.Value) uint64 {
	switch tv := v.(type) {
	case datum.UintValue:
		return uint64(tv)
	case datum.BoolValue:
		if tv {
			return 1
		}
		return 0
	default:
		return 0
	}
}

type actionKey struct {
	typeAR, typeAK bool
	typeMT         mib.MessageType
}

var payloadFactories = map[actionKey]func() Payload{}

// register associates a (type_ar, type_ak, type_mt) wire key with a
// Payload factory. Called from each payload type's init(): explicit,
// process-start registration rather than decorators or import-time
// side effects scattered across the codebase.
func register(typeAR, typeAK bool, typeMT mib.MessageType, factory func() Payload) {
	payloadFactories[actionKey{typeAR, typeAK, typeMT}] = factory
}

func lookupFactory(typeAR, typeAK bool, typeMT mib.MessageType) (func() Payload, bool) {
	f, ok := payloadFactories[actionKey{typeAR, typeAK, typeMT}]
	return f, ok
}
