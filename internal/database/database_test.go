package database

import (
	"testing"

	"github.com/bbf/onusim/internal/datum"
	"github.com/bbf/onusim/internal/mib"
	"github.com/bbf/onusim/internal/mibdefs"
	"github.com/bbf/onusim/internal/omcierrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	return New(mibdefs.NewRegistry(), 1, 1, true, false)
}

func TestGetUnknownClassReturnsUnknownClassReason(t *testing.T) {
	d := newTestDB(t)
	results := d.Get(1, 9999, 0, 0xffff, false)
	assert.Equal(t, omcierrors.ReasonUnknownClass, results.Reason)
}

func TestGetUnknownInstanceReturnsUnknownInstanceReason(t *testing.T) {
	d := newTestDB(t)
	results := d.Get(1, uint16(mibdefs.ClassONUG), 7, 0xffff, false)
	assert.Equal(t, omcierrors.ReasonUnknownInstance, results.Reason)
}

func TestGetOnuGReturnsSeededValues(t *testing.T) {
	d := newTestDB(t)
	results := d.Get(1, uint16(mibdefs.ClassONUG), 0, 0xffff, false)
	require.Equal(t, omcierrors.ReasonSuccess, results.Reason)
	found := false
	for _, av := range results.Attrs {
		if av.Attr.Name == "vendor_id" {
			found = true
			require.Len(t, av.Values, 1)
			assert.Equal(t, "1234", av.Values[0].String())
		}
	}
	assert.True(t, found, "vendor_id not present in Get results")
}

func TestSetWritableAttributeBumpsMibDataSync(t *testing.T) {
	d := newTestDB(t)
	before := d.onuDataInstance(1)["mib_data_sync"][0].String()

	attr := mustClass(t, d, mibdefs.ClassONUG).AttrByName("admin_state")
	results := d.Set(1, uint16(mibdefs.ClassONUG), 0, attr.Mask(),
		map[string][]datum.Value{"admin_state": {datum.EnumValue("lock")}}, false, true)
	require.Equal(t, omcierrors.ReasonSuccess, results.Reason)

	after := d.onuDataInstance(1)["mib_data_sync"][0].String()
	assert.NotEqual(t, before, after)
}

func TestSetNonWritableAttributeIsRejectedWhenAccessChecked(t *testing.T) {
	d := newTestDB(t)
	attr := mustClass(t, d, mibdefs.ClassONUG).AttrByName("vendor_id")
	results := d.Set(1, uint16(mibdefs.ClassONUG), 0, attr.Mask(),
		map[string][]datum.Value{"vendor_id": {datum.UintValue(1)}}, false, true)
	assert.Equal(t, omcierrors.ReasonParameterError, results.Reason)
}

func TestSetNonWritableAttributeSucceedsWhenAccessNotChecked(t *testing.T) {
	d := newTestDB(t)
	attr := mustClass(t, d, mibdefs.ClassONUG).AttrByName("vendor_id")
	results := d.Set(1, uint16(mibdefs.ClassONUG), 0, attr.Mask(),
		map[string][]datum.Value{"vendor_id": {datum.UintValue(42)}}, false, false)
	assert.Equal(t, omcierrors.ReasonSuccess, results.Reason)

	get := d.Get(1, uint16(mibdefs.ClassONUG), 0, attr.Mask(), false)
	require.Len(t, get.Attrs, 1)
	assert.Equal(t, "42", get.Attrs[0].Values[0].String())
}

func TestCreateRejectsExistingInstance(t *testing.T) {
	d := newTestDB(t)
	results := d.Create(1, uint16(mibdefs.ClassONUG), 0, nil)
	assert.Equal(t, omcierrors.ReasonInstanceExists, results.Reason)
}

func TestCreateRejectsUnknownAttributeName(t *testing.T) {
	d := newTestDB(t)
	results := d.Create(1, uint16(mibdefs.ClassSoftwareImage), 0x0200,
		map[string][]datum.Value{"not_a_real_attribute": {datum.UintValue(1)}})
	assert.Equal(t, omcierrors.ReasonUnknownInstance, results.Reason)

	get := d.Get(1, uint16(mibdefs.ClassSoftwareImage), 0x0200, 0xffff, false)
	assert.Equal(t, omcierrors.ReasonUnknownInstance, get.Reason, "rejected create must not materialize an instance")
}

func TestCreateThenDeleteRoundTrips(t *testing.T) {
	d := newTestDB(t)
	results := d.Create(1, uint16(mibdefs.ClassSoftwareImage), 0x0200, nil)
	require.Equal(t, omcierrors.ReasonSuccess, results.Reason)

	get := d.Get(1, uint16(mibdefs.ClassSoftwareImage), 0x0200, 0xffff, false)
	assert.Equal(t, omcierrors.ReasonSuccess, get.Reason)

	del := d.Delete(1, uint16(mibdefs.ClassSoftwareImage), 0x0200)
	require.Equal(t, omcierrors.ReasonSuccess, del.Reason)

	get = d.Get(1, uint16(mibdefs.ClassSoftwareImage), 0x0200, 0xffff, false)
	assert.Equal(t, omcierrors.ReasonUnknownInstance, get.Reason)
}

func TestResetOnlyAcceptsOnuDataClass(t *testing.T) {
	d := newTestDB(t)
	assert.Equal(t, omcierrors.ReasonUnknownClass, d.Reset(1, uint16(mibdefs.ClassONUG), 0).Reason)
	assert.Equal(t, omcierrors.ReasonSuccess, d.Reset(1, uint16(mibdefs.ClassONUData), 0).Reason)
}

func TestResetReseedsInstances(t *testing.T) {
	d := newTestDB(t)
	attr := mustClass(t, d, mibdefs.ClassONUG).AttrByName("admin_state")
	d.Set(1, uint16(mibdefs.ClassONUG), 0, attr.Mask(),
		map[string][]datum.Value{"admin_state": {datum.EnumValue("lock")}}, false, true)

	d.Reset(1, uint16(mibdefs.ClassONUData), 0)

	get := d.Get(1, uint16(mibdefs.ClassONUG), 0, attr.Mask(), false)
	require.Len(t, get.Attrs, 1)
	assert.Equal(t, "unlock", get.Attrs[0].Values[0].String())
}

func TestUploadThenUploadNextReturnsSnapshot(t *testing.T) {
	d := newTestDB(t)
	upload := d.Upload(1, uint16(mibdefs.ClassONUData), 0, false)
	require.Equal(t, omcierrors.ReasonSuccess, upload.Reason)
	require.Greater(t, int(upload.NumUploadNexts), 0)

	for seq := uint16(0); seq < upload.NumUploadNexts; seq++ {
		next := d.UploadNext(1, uint16(mibdefs.ClassONUData), 0, seq, false)
		assert.Equal(t, omcierrors.ReasonSuccess, next.Reason)
		assert.NotEmpty(t, next.Body.Chunks)
	}
}

func TestUploadNextWithoutUploadFails(t *testing.T) {
	d := newTestDB(t)
	next := d.UploadNext(1, uint16(mibdefs.ClassONUData), 0, 0, false)
	assert.Equal(t, omcierrors.ReasonProcessingError, next.Reason)
}

func TestGetAllAlarmsWalksInjectedAlarms(t *testing.T) {
	d := newTestDB(t)
	var bitmap [28]byte
	bitmap[0] = 0x80
	d.SetAlarm(1, uint16(mibdefs.ClassANIG), 0, bitmap)

	all := d.GetAllAlarms(1, uint16(mibdefs.ClassONUData), 0, 0)
	require.Equal(t, omcierrors.ReasonSuccess, all.Reason)
	require.Equal(t, uint16(1), all.NumAlarmNexts)

	next := d.GetAllAlarmsNext(1, uint16(mibdefs.ClassONUData), 0, 0)
	require.Equal(t, omcierrors.ReasonSuccess, next.Reason)
	assert.Equal(t, uint16(mibdefs.ClassANIG), next.AlarmEntry.MEClass)
	assert.Equal(t, bitmap, next.AlarmEntry.Bitmap)
}

func TestOptionalAttributesMaterializedWhenOptionalTrue(t *testing.T) {
	d := New(mibdefs.NewRegistry(), 1, 1, true, false)
	results := d.Get(1, uint16(mibdefs.ClassONUG), 0, 0xffff, false)
	require.Equal(t, omcierrors.ReasonSuccess, results.Reason)
	names := make(map[string]bool)
	for _, av := range results.Attrs {
		names[av.Attr.Name] = true
	}
	assert.True(t, names["oper_state"], "optional attribute oper_state should be materialized")
	assert.True(t, names["credentials_status"], "optional attribute credentials_status should be materialized")
}

func TestOptionalAttributesOmittedWhenOptionalFalse(t *testing.T) {
	d := New(mibdefs.NewRegistry(), 1, 1, false, false)
	results := d.Get(1, uint16(mibdefs.ClassONUG), 0, 0xffff, false)
	require.Equal(t, omcierrors.ReasonSuccess, results.Reason)
	for _, av := range results.Attrs {
		assert.NotEqual(t, "oper_state", av.Attr.Name)
		assert.NotEqual(t, "credentials_status", av.Attr.Name)
	}
}

func TestGetNextRequiresExactlyOneTableAttribute(t *testing.T) {
	d := newTestDB(t)
	results := d.GetNext(1, uint16(mibdefs.ClassONUG), 0, 0xffff, 0)
	assert.Equal(t, omcierrors.ReasonParameterError, results.Reason)
}

func TestGetTableWithAnotherAttributeIsParameterError(t *testing.T) {
	d := newTestDB(t)
	class := mustClass(t, d, mibdefs.ClassONURemoteDebug)
	mask := class.AttrByName("reply_table").Mask() | class.AttrByName("command_format").Mask()

	results := d.Get(1, uint16(mibdefs.ClassONURemoteDebug), 0, mask, false)
	assert.Equal(t, omcierrors.ReasonParameterError, results.Reason)
	assert.Empty(t, results.Attrs)
}

func TestGetAloneOnTableLatchesSnapshotForGetNext(t *testing.T) {
	d := newTestDB(t)
	class := mustClass(t, d, mibdefs.ClassONURemoteDebug)
	tableMask := class.AttrByName("reply_table").Mask()

	get := d.Get(1, uint16(mibdefs.ClassONURemoteDebug), 0, tableMask, false)
	require.Equal(t, omcierrors.ReasonSuccess, get.Reason)
	assert.Equal(t, tableMask, get.AttrMask)
	assert.Empty(t, get.Attrs, "table contents are fetched via get-next, not returned inline")

	next := d.GetNext(1, uint16(mibdefs.ClassONURemoteDebug), 0, tableMask, 0)
	require.Equal(t, omcierrors.ReasonSuccess, next.Reason)
	require.Len(t, next.Attrs, 1)
	assert.Len(t, next.Attrs[0].Values[0].(datum.BytesValue), getNextChunkLen)
}

func TestGetNextWithoutLatchedSnapshotReturnsUnknownClass(t *testing.T) {
	d := newTestDB(t)
	class := mustClass(t, d, mibdefs.ClassONURemoteDebug)
	tableMask := class.AttrByName("reply_table").Mask()

	results := d.GetNext(1, uint16(mibdefs.ClassONURemoteDebug), 0, tableMask, 0)
	assert.Equal(t, omcierrors.ReasonUnknownClass, results.Reason)
}

func TestGetNextSeqNumOutOfRangeIsParameterError(t *testing.T) {
	d := newTestDB(t)
	class := mustClass(t, d, mibdefs.ClassONURemoteDebug)
	tableMask := class.AttrByName("reply_table").Mask()

	get := d.Get(1, uint16(mibdefs.ClassONURemoteDebug), 0, tableMask, false)
	require.Equal(t, omcierrors.ReasonSuccess, get.Reason)

	results := d.GetNext(1, uint16(mibdefs.ClassONURemoteDebug), 0, tableMask, 999)
	assert.Equal(t, omcierrors.ReasonParameterError, results.Reason)
}

func mustClass(t *testing.T, d *Database, number int) *mib.Class {
	t.Helper()
	c, ok := d.registry.ByNumber(number)
	require.True(t, ok)
	return c
}
