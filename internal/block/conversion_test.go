package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		c    Conversion
	}{
		{"identity, no val or ref", Conversion{Type: CCIdentity}},
		{"linear", Conversion{Type: CCLinear, Val: []float64{1.5, 2.5}}},
		{"rational", Conversion{Type: CCRational, Val: []float64{1, 2, 3, 4, 5, 6}}},
		{"table lookup interp", Conversion{Type: CCTableLookupInterp, Val: []float64{0, 0, 1, 10, 2, 20}}},
		{"value to text", Conversion{Type: CCValueToText, Val: []float64{1, 2, 3}, Ref: []uint64{0x100, 0x200, 0x300}}},
		{"nested conversion ref", Conversion{Type: CCLinear, Val: []float64{0, 1}, Ref: []uint64{0x400}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.c.Size())
			require.NoError(t, tt.c.Serialize(buf))

			got, err := ParseConversion(buf)
			require.NoError(t, err)
			assert.Equal(t, tt.c.Type, got.Type)
			assert.Equal(t, len(tt.c.Val), len(got.Val))
			for i := range tt.c.Val {
				assert.Equal(t, tt.c.Val[i], got.Val[i])
			}
			assert.Equal(t, len(tt.c.Ref), len(got.Ref))
			for i := range tt.c.Ref {
				assert.Equal(t, tt.c.Ref[i], got.Ref[i])
			}
		})
	}
}

func TestConversionSizeIsAligned(t *testing.T) {
	c := Conversion{Type: CCBitfieldText, Val: []float64{1, 2, 3}, Ref: []uint64{1, 2}}
	assert.Equal(t, uint64(0), c.Size()%Alignment)
}

func TestConversionSerializeShortBuffer(t *testing.T) {
	c := Conversion{Val: []float64{1, 2}}
	err := c.Serialize(make([]byte, 4))
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestParseConversionBadMagic(t *testing.T) {
	buf := make([]byte, 32)
	h := Header{Magic: MagicCN, Length: 32}
	require.NoError(t, SerializeHeader(buf, h))

	_, err := ParseConversion(buf)
	assert.ErrorIs(t, err, ErrUnexpectedMagic)
}
