package message

import (
	"testing"

	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/bbf/onusim/internal/serverhandle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *mib.Registry {
	r := mib.NewRegistry()
	c := mib.NewClass(256, "OnuG", "ONU-G")
	c.AddAttribute(&mib.Attribute{Number: 0, Name: "me_inst", Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(2, 0)}})
	c.AddAttribute(&mib.Attribute{Number: 1, Name: "vendor_id", Access: mib.R, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewNumber(4, 0)}})
	c.AddAttribute(&mib.Attribute{Number: 6, Name: "battery_backup", Access: mib.RW, Requirement: mib.Mandatory,
		Data: []*datum.Datum{datum.NewBool(1, false)}})
	c.WithActions(mib.Get, mib.Set, mib.MibReset)
	r.Register(c)
	r.Freeze()
	return r
}

func TestGetRequestBaselineRoundTrip(t *testing.T) {
	registry := testRegistry()
	class, ok := registry.ByNumber(256)
	require.True(t, ok)

	req := &Message{
		CtermName: "cterm", OnuID: 42, TCI: 7,
		TypeAR: true, TypeMT: mib.Get, MEClass: 256, MEInst: 0,
		Payload: &GetRequest{ClassAware: ClassAware{Class: class}, AttrMask: 0x8000 | 0x0200},
	}
	buf := req.Encode(true)

	decoded, err := Decode(buf, true, registry)
	require.NoError(t, err)
	assert.Equal(t, "cterm", decoded.CtermName)
	assert.Equal(t, uint16(42), decoded.OnuID)
	assert.Equal(t, uint16(7), decoded.TCI)
	assert.True(t, decoded.TypeAR)
	assert.Equal(t, mib.Get, decoded.TypeMT)
	get, ok := decoded.Payload.(*GetRequest)
	require.True(t, ok)
	assert.Equal(t, uint16(0x8200), get.AttrMask)
}

func TestSetRequestBaselineRoundTrip(t *testing.T) {
	registry := testRegistry()
	class, ok := registry.ByNumber(256)
	require.True(t, ok)

	req := &Message{
		CtermName: "cterm", OnuID: 1, TCI: 1,
		TypeAR: true, TypeMT: mib.Set, MEClass: 256, MEInst: 0,
		Payload: &SetRequest{
			ClassAware: ClassAware{Class: class},
			AttrMask:   class.AttrByNumber(6).Mask(),
			Values:     map[string][]datum.Value{"battery_backup": {datum.BoolValue(true)}},
		},
	}
	buf := req.Encode(true)
	// tr451 header (32) + tci/type/devid/class/inst (8) + contents (32) +
	// cpcs_uu+cpi+cpcs_sdu+reserved trailer (8) = 80.
	require.Len(t, buf, tr451HeaderLen+8+maxBaselineContentsLen+8)

	decoded, err := Decode(buf, true, registry)
	require.NoError(t, err)
	set, ok := decoded.Payload.(*SetRequest)
	require.True(t, ok)
	assert.Equal(t, class.AttrByNumber(6).Mask(), set.AttrMask)
	require.Contains(t, set.Values, "battery_backup")
	assert.Equal(t, datum.BoolValue(true), set.Values["battery_backup"][0])
}

func TestCreateRequestDecodeContentsMarksUnknownAttributeNumber(t *testing.T) {
	registry := testRegistry()
	class, ok := registry.ByNumber(256)
	require.True(t, ok)

	// Bit for attribute number 9, which testRegistry's class never
	// defines.
	req := &CreateRequest{ClassAware: ClassAware{Class: class}, AttrMask: 1 << (16 - 9)}
	contents := append([]byte{byte(req.AttrMask >> 8), byte(req.AttrMask)}, make([]byte, 4)...)

	decoded := &CreateRequest{ClassAware: ClassAware{Class: class}}
	require.NoError(t, decoded.DecodeContents(contents))
	require.Contains(t, decoded.Values, "9")
	assert.Nil(t, class.Attr("9"))
}

func TestMibUploadNextResponseRoundTripsMultipleChunks(t *testing.T) {
	registry := testRegistry()
	class, ok := registry.ByNumber(256)
	require.True(t, ok)
	vendorID := class.AttrByNumber(1)
	batteryBackup := class.AttrByNumber(6)

	resp := &MibUploadNextResponse{
		Body: serverhandle.Body{Chunks: []serverhandle.Chunk{
			{
				MEClass: 256, MEInst: 0, AttrMask: vendorID.Mask(),
				Attrs: []serverhandle.AttrValue{{Attr: vendorID, Values: []datum.Value{datum.UintValue(1234)}}},
			},
			{
				MEClass: 256, MEInst: 1, AttrMask: batteryBackup.Mask(),
				Attrs: []serverhandle.AttrValue{{Attr: batteryBackup, Values: []datum.Value{datum.BoolValue(true)}}},
			},
		}},
	}

	decoded := &MibUploadNextResponse{}
	decoded.SetRegistry(registry)
	require.NoError(t, decoded.DecodeContents(resp.EncodeContents()))

	require.Len(t, decoded.Body.Chunks, 2)
	assert.Equal(t, uint16(0), decoded.Body.Chunks[0].MEInst)
	require.Len(t, decoded.Body.Chunks[0].Attrs, 1)
	assert.Equal(t, "vendor_id", decoded.Body.Chunks[0].Attrs[0].Attr.Name)
	assert.Equal(t, "1234", decoded.Body.Chunks[0].Attrs[0].Values[0].String())

	assert.Equal(t, uint16(1), decoded.Body.Chunks[1].MEInst)
	require.Len(t, decoded.Body.Chunks[1].Attrs, 1)
	assert.Equal(t, "battery_backup", decoded.Body.Chunks[1].Attrs[0].Attr.Name)
	assert.Equal(t, "true", decoded.Body.Chunks[1].Attrs[0].Values[0].String())
}

func TestDecodeUnregisteredMessageTypeReturnsDispatchError(t *testing.T) {
	registry := testRegistry()
	buf := []byte{0, 0, 0x1f, devIDBaseline, 1, 0, 0, 0}
	buf = append(buf, make([]byte, maxBaselineContentsLen)...)
	buf = append(buf, 0x00, 0x00, byte(cpcsSDUFixed>>8), byte(cpcsSDUFixed))
	buf = append(buf, make([]byte, trailerReservedLen)...)

	_, err := Decode(buf, false, registry)
	require.Error(t, err)
	var dispatchErr *omcierrors.DispatchError
	require.ErrorAs(t, err, &dispatchErr)
}
