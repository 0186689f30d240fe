package datum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberRoundTrip(t *testing.T) {
	d := NewNumber(2, 0)
	buf := d.Encode(UintValue(1234))
	require.Len(t, buf, 2)
	v, offset, err := d.Decode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, offset)
	assert.Equal(t, UintValue(1234), v)
}

func TestBoolDefaultFalse(t *testing.T) {
	d := NewBool(1, false)
	buf := d.Encode(nil)
	assert.Equal(t, []byte{0x00}, buf)
	v, _, err := d.Decode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, BoolValue(false), v)
}

func TestEnumRoundTrip(t *testing.T) {
	d := NewEnum(1, []string{"off", "on", "standby"}, "off")
	buf := d.Encode(EnumValue("standby"))
	assert.Equal(t, []byte{0x02}, buf)
	v, _, err := d.Decode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, EnumValue("standby"), v)
}

func TestEnumDecodeOutOfRangeReturnsDefault(t *testing.T) {
	d := NewEnum(1, []string{"off", "on"}, "off")
	v, _, err := d.Decode([]byte{0x05}, 0)
	require.Error(t, err)
	assert.Equal(t, EnumValue("off"), v)
}

func TestBitsRoundTrip(t *testing.T) {
	d := NewBits(4, []string{"a", "b", "c", "d"})
	buf := d.Encode(BitsValue{"b", "d"})
	v, _, err := d.Decode(buf, 0)
	require.NoError(t, err)
	bv := v.(BitsValue)
	assert.True(t, bv.Has("b"))
	assert.True(t, bv.Has("d"))
	assert.False(t, bv.Has("a"))
}

func TestStringTrimsTrailingNUL(t *testing.T) {
	d := NewString(8, "")
	buf := d.Encode(StringValue("abc"))
	require.Len(t, buf, 8)
	v, _, err := d.Decode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, StringValue("abc"), v)
}

func TestDecodeShortBufferReturnsDefault(t *testing.T) {
	d := NewNumber(4, 99)
	v, offset, err := d.Decode([]byte{0x01}, 0)
	require.NoError(t, err)
	assert.Equal(t, UintValue(99), v)
	assert.Equal(t, 4, offset)
}

func TestTableDecodesRemainderAsRows(t *testing.T) {
	d := NewTable(3)
	buf := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}
	v, offset, err := d.Decode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 9, offset)
	tv := v.(TableValue)
	require.Len(t, tv.Rows, 3)
	assert.Equal(t, []byte{1, 2, 3}, tv.Rows[0])
	assert.Equal(t, []byte{7, 8, 9}, tv.Rows[2])
}

func TestFixedValueNotSilentlyCorrected(t *testing.T) {
	d := NewNumber(1, 0).WithFixed(UintValue(5))
	v, _, err := d.Decode([]byte{0x07}, 0)
	require.NoError(t, err)
	assert.Equal(t, UintValue(7), v)
}
