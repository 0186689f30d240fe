// Package restapi implements the HTTP side channel (C6) for driving the
// MIB database directly, bypassing OMCI framing entirely: a single
// POST /onu/action_on_mes endpoint that batches GET/SET/CREATE/DELETE/
// ALARM requests against one or more ONUs.
//
// Grounded on obbaa_onusim/rest_api.py's action_on_mes endpoint.
package restapi

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bbf/onusim/internal/database"
	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	log "github.com/sirupsen/logrus"
)

// Alarmer is the subset of endpoint.Server the REST API needs for the
// ALARM action: injecting an alarm bitmap and, if a peer is known,
// notifying it.
type Alarmer interface {
	InjectAlarm(onuID, meClass, meInst uint16, bitmap [28]byte, seqNum byte)
}

// Handler serves the action_on_mes endpoint.
type Handler struct {
	registry *mib.Registry
	db       *database.Database
	alarmer  Alarmer
}

// New builds a Handler and registers its routes on router.
func New(router *mux.Router, registry *mib.Registry, db *database.Database, alarmer Alarmer) *Handler {
	h := &Handler{registry: registry, db: db, alarmer: alarmer}
	router.HandleFunc("/onu/action_on_mes", h.actionOnMEs).Methods(http.MethodPost)
	return h
}

type attrRef struct {
	Index int         `json:"index"`
	Value interface{} `json:"value,omitempty"`
}

type meRequest struct {
	Action     string    `json:"action"`
	OnuID      uint16    `json:"onu_id"`
	ClassID    uint16    `json:"class_id"`
	InstanceID uint16    `json:"instance_id"`
	Attributes []attrRef `json:"attributes,omitempty"`
	BitMap     string    `json:"bit_map,omitempty"`
	SeqNumber  int       `json:"seq_number,omitempty"`
	Status     int       `json:"status"`
}

type batchRequest struct {
	Requests []meRequest `json:"requests"`
}

type batchResponse struct {
	Responses []meRequest `json:"responses"`
}

func (h *Handler) actionOnMEs(w http.ResponseWriter, r *http.Request) {
	var batch batchRequest
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp := batchResponse{Responses: make([]meRequest, 0, len(batch.Requests))}
	for _, req := range batch.Requests {
		resp.Responses = append(resp.Responses, h.dispatch(req))
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.WithError(err).Warn("restapi: failed to encode response")
	}
}

func (h *Handler) dispatch(req meRequest) meRequest {
	switch req.Action {
	case "GET":
		return h.get(req)
	case "SET":
		return h.set(req)
	case "CREATE":
		return h.create(req)
	case "DELETE":
		return h.delete(req)
	case "ALARM":
		return h.alarm(req)
	default:
		log.WithField("action", req.Action).Warn("restapi: unrecognized action")
		req.Status = int(omcierrors.ReasonProcessingError)
		return req
	}
}

func (h *Handler) classFor(req meRequest) *mib.Class {
	class, ok := h.registry.ByNumber(int(req.ClassID))
	if !ok {
		log.WithField("class_id", req.ClassID).Error("restapi: unknown class")
	}
	return class
}

func attrMask(attrs []attrRef) uint16 {
	var mask uint16
	for _, a := range attrs {
		mask |= mib.BitForAttr(a.Index)
	}
	return mask
}

// toValues converts the request's index/value pairs into the name-keyed
// value map the database expects, using each attribute's first Datum to
// pick the right Value kind. Multi-Datum attributes (e.g. serial_number)
// aren't expressible via this single-value JSON shape and are skipped,
// matching the original endpoint's same limitation. An index naming no
// attribute on the class is kept under its decimal-string form (never a
// real attribute name) so Database.Create can still report it as an
// unknown attribute name instead of silently dropping it.
func toValues(class *mib.Class, attrs []attrRef) map[string][]datum.Value {
	values := make(map[string][]datum.Value)
	for _, a := range attrs {
		attr := class.AttrByNumber(a.Index)
		if attr == nil {
			values[strconv.Itoa(a.Index)] = nil
			continue
		}
		if len(attr.Data) != 1 {
			continue
		}
		values[attr.Name] = []datum.Value{jsonToValue(attr.Data[0], a.Value)}
	}
	return values
}

func jsonToValue(d *datum.Datum, v interface{}) datum.Value {
	switch d.Kind {
	case datum.KindUnsignedInt:
		if f, ok := v.(float64); ok {
			return datum.UintValue(uint64(f))
		}
		return datum.UintValue(0)
	case datum.KindBool:
		if b, ok := v.(bool); ok {
			return datum.BoolValue(b)
		}
		return datum.BoolValue(false)
	case datum.KindEnum:
		if s, ok := v.(string); ok {
			return datum.EnumValue(s)
		}
		return datum.EnumValue("")
	case datum.KindString:
		if s, ok := v.(string); ok {
			return datum.StringValue(s)
		}
		return datum.StringValue("")
	default:
		return nil
	}
}

func (h *Handler) get(req meRequest) meRequest {
	class := h.classFor(req)
	if class == nil {
		req.Status = int(omcierrors.ReasonUnknownClass)
		return req
	}
	mask := attrMask(req.Attributes)
	results := h.db.Get(req.OnuID, req.ClassID, req.InstanceID, mask, false)
	req.Status = int(results.Reason)
	req.Attributes = req.Attributes[:0]
	for _, n := range mib.MaskIndices(results.AttrMask) {
		for _, av := range results.Attrs {
			if av.Attr.Number == n && len(av.Values) > 0 {
				req.Attributes = append(req.Attributes, attrRef{Index: n, Value: jsonValue(av.Values[0])})
			}
		}
	}
	return req
}

func jsonValue(v datum.Value) interface{} {
	switch tv := v.(type) {
	case datum.UintValue:
		return uint64(tv)
	case datum.BoolValue:
		return bool(tv)
	case datum.EnumValue:
		return string(tv)
	case datum.StringValue:
		return string(tv)
	default:
		return v.String()
	}
}

func (h *Handler) set(req meRequest) meRequest {
	class := h.classFor(req)
	if class == nil {
		req.Status = int(omcierrors.ReasonUnknownClass)
		return req
	}
	mask := attrMask(req.Attributes)
	values := toValues(class, req.Attributes)
	// check_access=False in the original: the REST API may set attributes
	// regardless of their declared access mode.
	results := h.db.Set(req.OnuID, req.ClassID, req.InstanceID, mask, values, false, false)
	req.Status = int(results.Reason)
	return req
}

func (h *Handler) create(req meRequest) meRequest {
	class := h.classFor(req)
	if class == nil {
		req.Status = int(omcierrors.ReasonUnknownClass)
		return req
	}
	values := toValues(class, req.Attributes)
	results := h.db.Create(req.OnuID, req.ClassID, req.InstanceID, values)
	req.Status = int(results.Reason)
	return req
}

func (h *Handler) delete(req meRequest) meRequest {
	results := h.db.Delete(req.OnuID, req.ClassID, req.InstanceID)
	req.Status = int(results.Reason)
	return req
}

func (h *Handler) alarm(req meRequest) meRequest {
	raw, err := hex.DecodeString(req.BitMap)
	if err != nil || len(raw) != 28 {
		log.WithField("bit_map", req.BitMap).Error("restapi: alarm bit_map must be 28 hex-encoded bytes")
		req.Status = int(omcierrors.ReasonParameterError)
		return req
	}
	var bitmap [28]byte
	copy(bitmap[:], raw)
	h.alarmer.InjectAlarm(req.OnuID, req.ClassID, req.InstanceID, bitmap, byte(req.SeqNumber))
	req.Status = int(omcierrors.ReasonSuccess)
	return req
}
