package conversion

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scigolib/mdf4/internal/block"
	"github.com/scigolib/mdf4/internal/graph"
)

// mockGraph is a fake GraphReader keyed by offset: each offset holds
// either a text value or a conversion block, never both.
type mockGraph struct {
	texts       map[uint64]string
	conversions map[uint64]block.Conversion
}

func newMockGraph() *mockGraph {
	return &mockGraph{texts: map[uint64]string{}, conversions: map[uint64]block.Conversion{}}
}

func (m *mockGraph) Magic(offset uint64) ([4]byte, error) {
	if _, ok := m.texts[offset]; ok {
		return block.MagicTX, nil
	}
	if _, ok := m.conversions[offset]; ok {
		return block.MagicCC, nil
	}
	return [4]byte{}, fmt.Errorf("mockGraph: no block at 0x%x", offset)
}

func (m *mockGraph) Text(offset uint64) (string, error) {
	s, ok := m.texts[offset]
	if !ok {
		return "", fmt.Errorf("mockGraph: no text at 0x%x", offset)
	}
	return s, nil
}

func (m *mockGraph) Conversion(offset uint64) (graph.ConversionRef, error) {
	cc, ok := m.conversions[offset]
	if !ok {
		return graph.ConversionRef{}, fmt.Errorf("mockGraph: no conversion at 0x%x", offset)
	}
	return graph.ConversionRef{Offset: offset, Block: cc}, nil
}

func TestResolveNullOffsetIsNoConversion(t *testing.T) {
	r, err := Resolve(newMockGraph(), 0)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestResolveSimpleLinear(t *testing.T) {
	g := newMockGraph()
	g.conversions[0x10] = block.Conversion{Type: block.CCLinear, Val: []float64{1, 2}}

	r, err := Resolve(g, 0x10)
	require.NoError(t, err)
	assert.Equal(t, block.CCLinear, r.Type)
	assert.Equal(t, []float64{1, 2}, r.Val)
	assert.Empty(t, r.Refs)
}

func TestResolveTextRef(t *testing.T) {
	g := newMockGraph()
	g.texts[0x20] = "formula text"
	g.conversions[0x10] = block.Conversion{Type: block.CCAlgebraic, Ref: []uint64{0x20}}

	r, err := Resolve(g, 0x10)
	require.NoError(t, err)
	require.Len(t, r.Refs, 1)
	assert.Equal(t, "formula text", r.Refs[0].Text)
	assert.Nil(t, r.Refs[0].Nested)
}

func TestResolveNestedConversion(t *testing.T) {
	g := newMockGraph()
	g.conversions[0x30] = block.Conversion{Type: block.CCLinear, Val: []float64{0, 1}}
	g.conversions[0x10] = block.Conversion{Type: block.CCLinear, Val: []float64{1, 1}, Ref: []uint64{0x30}}

	r, err := Resolve(g, 0x10)
	require.NoError(t, err)
	require.Len(t, r.Refs, 1)
	require.NotNil(t, r.Refs[0].Nested)
	assert.Equal(t, []float64{0, 1}, r.Refs[0].Nested.Val)
}

func TestResolveDiamondIsNotACycle(t *testing.T) {
	g := newMockGraph()
	g.conversions[0x40] = block.Conversion{Type: block.CCIdentity}
	g.conversions[0x20] = block.Conversion{Type: block.CCLinear, Ref: []uint64{0x40}}
	g.conversions[0x30] = block.Conversion{Type: block.CCLinear, Ref: []uint64{0x40}}
	g.conversions[0x10] = block.Conversion{Type: block.CCLinear, Ref: []uint64{0x20, 0x30}}

	r, err := Resolve(g, 0x10)
	require.NoError(t, err)
	require.Len(t, r.Refs, 2)
	assert.NotNil(t, r.Refs[0].Nested)
	assert.NotNil(t, r.Refs[1].Nested)
}

func TestResolveDetectsCycle(t *testing.T) {
	g := newMockGraph()
	g.conversions[0x10] = block.Conversion{Type: block.CCLinear, Ref: []uint64{0x10}}

	_, err := Resolve(g, 0x10)
	assert.ErrorIs(t, err, ErrChainCycle)
}

func TestResolveDetectsIndirectCycle(t *testing.T) {
	g := newMockGraph()
	g.conversions[0x10] = block.Conversion{Type: block.CCLinear, Ref: []uint64{0x20}}
	g.conversions[0x20] = block.Conversion{Type: block.CCLinear, Ref: []uint64{0x10}}

	_, err := Resolve(g, 0x10)
	assert.ErrorIs(t, err, ErrChainCycle)
}

func TestResolveTooDeep(t *testing.T) {
	g := newMockGraph()
	const chainLen = MaxChainDepth + 5
	for i := 0; i < chainLen; i++ {
		offset := uint64(i + 1)
		next := offset + 1
		if i == chainLen-1 {
			g.conversions[offset] = block.Conversion{Type: block.CCIdentity}
		} else {
			g.conversions[offset] = block.Conversion{Type: block.CCLinear, Ref: []uint64{next}}
		}
	}

	_, err := Resolve(g, 1)
	assert.ErrorIs(t, err, ErrChainTooDeep)
}

func TestResolveUnreadableRef(t *testing.T) {
	g := newMockGraph()
	g.conversions[0x10] = block.Conversion{Type: block.CCLinear, Ref: []uint64{0x99}}

	_, err := Resolve(g, 0x10)
	assert.Error(t, err)
}
