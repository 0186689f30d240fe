package restapi

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbf/onusim/internal/database"
	"github.com/bbf/onusim/internal/mibdefs"
)

type fakeAlarmer struct {
	onuID, meClass, meInst uint16
	bitmap                 [28]byte
	seqNum                 byte
	called                 bool
}

func (f *fakeAlarmer) InjectAlarm(onuID, meClass, meInst uint16, bitmap [28]byte, seqNum byte) {
	f.onuID, f.meClass, f.meInst, f.bitmap, f.seqNum = onuID, meClass, meInst, bitmap, seqNum
	f.called = true
}

func newTestHandler() (*mux.Router, *database.Database, *fakeAlarmer) {
	registry := mibdefs.NewRegistry()
	db := database.New(registry, 1, 1, true, false)
	alarmer := &fakeAlarmer{}
	router := mux.NewRouter()
	New(router, registry, db, alarmer)
	return router, db, alarmer
}

func postBatch(t *testing.T, router *mux.Router, batch batchRequest) batchResponse {
	t.Helper()
	body, err := json.Marshal(batch)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/onu/action_on_mes", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp batchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestActionOnMEsGet(t *testing.T) {
	router, _, _ := newTestHandler()
	resp := postBatch(t, router, batchRequest{Requests: []meRequest{
		{Action: "GET", OnuID: 1, ClassID: uint16(mibdefs.ClassONUG), InstanceID: 0,
			Attributes: []attrRef{{Index: 1}}},
	}})
	require.Len(t, resp.Responses, 1)
	assert.Equal(t, 0, resp.Responses[0].Status)
	require.Len(t, resp.Responses[0].Attributes, 1)
	assert.EqualValues(t, 1234, resp.Responses[0].Attributes[0].Value)
}

func TestActionOnMESetBypassesAccessCheck(t *testing.T) {
	router, _, _ := newTestHandler()
	// vendor_id is read-only over OMCI but the REST path uses
	// check_access=False, so the set must still succeed.
	resp := postBatch(t, router, batchRequest{Requests: []meRequest{
		{Action: "SET", OnuID: 1, ClassID: uint16(mibdefs.ClassONUG), InstanceID: 0,
			Attributes: []attrRef{{Index: 1, Value: float64(99)}}},
	}})
	require.Len(t, resp.Responses, 1)
	assert.Equal(t, 0, resp.Responses[0].Status)

	get := postBatch(t, router, batchRequest{Requests: []meRequest{
		{Action: "GET", OnuID: 1, ClassID: uint16(mibdefs.ClassONUG), InstanceID: 0,
			Attributes: []attrRef{{Index: 1}}},
	}})
	assert.EqualValues(t, 99, get.Responses[0].Attributes[0].Value)
}

func TestActionOnMEsAlarmInjectsViaAlarmer(t *testing.T) {
	router, _, alarmer := newTestHandler()
	bitmap := make([]byte, 28)
	bitmap[0] = 0x80
	resp := postBatch(t, router, batchRequest{Requests: []meRequest{
		{Action: "ALARM", OnuID: 1, ClassID: uint16(mibdefs.ClassANIG), InstanceID: 0,
			BitMap: hex.EncodeToString(bitmap), SeqNumber: 3},
	}})
	require.Len(t, resp.Responses, 1)
	assert.Equal(t, 0, resp.Responses[0].Status)
	assert.True(t, alarmer.called)
	assert.Equal(t, byte(3), alarmer.seqNum)
	assert.Equal(t, byte(0x80), alarmer.bitmap[0])
}

func TestActionOnMEsCreateRejectsUnknownAttribute(t *testing.T) {
	router, _, _ := newTestHandler()
	resp := postBatch(t, router, batchRequest{Requests: []meRequest{
		{Action: "CREATE", OnuID: 1, ClassID: uint16(mibdefs.ClassSoftwareImage), InstanceID: 0x0300,
			Attributes: []attrRef{{Index: 99, Value: float64(1)}}},
	}})
	require.Len(t, resp.Responses, 1)
	assert.NotEqual(t, 0, resp.Responses[0].Status)

	get := postBatch(t, router, batchRequest{Requests: []meRequest{
		{Action: "GET", OnuID: 1, ClassID: uint16(mibdefs.ClassSoftwareImage), InstanceID: 0x0300,
			Attributes: []attrRef{{Index: 1}}},
	}})
	assert.NotEqual(t, 0, get.Responses[0].Status, "rejected create must not materialize an instance")
}

func TestActionOnMEsUnknownClass(t *testing.T) {
	router, _, _ := newTestHandler()
	resp := postBatch(t, router, batchRequest{Requests: []meRequest{
		{Action: "GET", OnuID: 1, ClassID: 9999, InstanceID: 0},
	}})
	assert.NotEqual(t, 0, resp.Responses[0].Status)
}
