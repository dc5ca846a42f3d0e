package eeprom

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	img, err := OpenImage("", DefaultSize)
	require.NoError(t, err)
	store := NewStore(img)

	values := []int32{0, 1, -1, 220000, 240000, 250000, math.MinInt32, math.MaxInt32}
	for _, v := range values {
		for slot := 0; slot < 3; slot++ {
			store.WriteInt32(Slot(slot), v)
			assert.Equal(t, v, store.ReadInt32(Slot(slot)), "value %d at slot %d", v, slot)
		}
	}
}

func TestStore_LittleEndianLayout(t *testing.T) {
	img, err := OpenImage("", DefaultSize)
	require.NoError(t, err)
	store := NewStore(img)

	store.WriteInt32(4, 0x12345678)

	assert.Equal(t, byte(0x78), img.ReadByte(4), "least-significant byte at base address")
	assert.Equal(t, byte(0x56), img.ReadByte(5))
	assert.Equal(t, byte(0x34), img.ReadByte(6))
	assert.Equal(t, byte(0x12), img.ReadByte(7))
}

func TestStore_SlotsDoNotOverlap(t *testing.T) {
	img, err := OpenImage("", DefaultSize)
	require.NoError(t, err)
	store := NewStore(img)

	store.WriteInt32(Slot(0), 220000)
	store.WriteInt32(Slot(1), 240000)
	store.WriteInt32(Slot(2), 250000)

	assert.Equal(t, int32(220000), store.ReadInt32(Slot(0)))
	assert.Equal(t, int32(240000), store.ReadInt32(Slot(1)))
	assert.Equal(t, int32(250000), store.ReadInt32(Slot(2)))
}

func TestSlot_Addresses(t *testing.T) {
	assert.Equal(t, 0, Slot(0))
	assert.Equal(t, 4, Slot(1))
	assert.Equal(t, 8, Slot(2))
}

func TestOpenImage_FreshImageReadsErased(t *testing.T) {
	img, err := OpenImage("", DefaultSize)
	require.NoError(t, err)
	store := NewStore(img)

	// Erased bytes are 0xFF, so every slot decodes as -1 (uncalibrated).
	for slot := 0; slot < 3; slot++ {
		assert.Equal(t, int32(-1), store.ReadInt32(Slot(slot)))
	}
}

func TestOpenImage_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.bin")

	img, err := OpenImage(path, DefaultSize)
	require.NoError(t, err)
	store := NewStore(img)
	store.WriteInt32(Slot(1), 240000)
	require.NoError(t, img.Err())

	reopened, err := OpenImage(path, DefaultSize)
	require.NoError(t, err)
	assert.Equal(t, int32(240000), NewStore(reopened).ReadInt32(Slot(1)))
	assert.Equal(t, int32(-1), NewStore(reopened).ReadInt32(Slot(0)), "untouched slot stays erased")
}

func TestOpenImage_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eeprom.bin")

	_, err := OpenImage(path, DefaultSize)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, DefaultSize)
	for _, b := range data {
		assert.Equal(t, byte(0xFF), b)
	}
}
