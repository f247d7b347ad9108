package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionImmutable(t *testing.T) {
	empty := Selection{}
	one := empty.With(IntKey(1))
	two := one.With(StringKey("b"))

	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 1, one.Len())
	assert.Equal(t, []Key{IntKey(1), StringKey("b")}, two.Keys())

	back := two.Without(IntKey(1))
	assert.Equal(t, []Key{StringKey("b")}, back.Keys())
	assert.True(t, two.Has(IntKey(1)), "Without must not modify the receiver")
}

func TestSelectionNoDuplicates(t *testing.T) {
	s := NewSelection(IntKey(1), IntKey(1), IntKey(2))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, s.Keys(), s.With(IntKey(2)).Keys())
}

func TestSelectionKeysIsACopy(t *testing.T) {
	s := NewSelection(IntKey(1))
	keys := s.Keys()
	keys[0] = IntKey(99)
	assert.True(t, s.Has(IntKey(1)))
	assert.False(t, s.Has(IntKey(99)))
}

func TestComputeTriState(t *testing.T) {
	page := []Key{IntKey(1), IntKey(2)}
	assert.Equal(t, SelectNone, ComputeTriState(page, Selection{}))
	assert.Equal(t, SelectSome, ComputeTriState(page, NewSelection(IntKey(2))))
	assert.Equal(t, SelectAll, ComputeTriState(page, NewSelection(IntKey(1), IntKey(2))))
	assert.Equal(t, SelectNone, ComputeTriState(nil, NewSelection(IntKey(1))))
	// Off-page selections never make a page look fully selected.
	assert.Equal(t, SelectSome, ComputeTriState(page, NewSelection(IntKey(1), IntKey(7))))
}
