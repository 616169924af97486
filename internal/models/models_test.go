package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagListRoundTrip(t *testing.T) {
	l := TagList{"a", "b", "c"}
	v, err := l.Value()
	require.NoError(t, err)
	assert.Equal(t, "a,b,c", v)

	var out TagList
	require.NoError(t, out.Scan("a,b,c"))
	assert.Equal(t, l, out)

	// Empty column scans to nil, not a one-element list.
	require.NoError(t, out.Scan(""))
	assert.Nil(t, out)
}

func TestTagListUnion(t *testing.T) {
	l := TagList{"a", "b"}
	assert.Equal(t, TagList{"a", "b", "c"}, l.Union([]string{"c", "a"}))
	assert.Equal(t, TagList{"a", "b"}, l.Union(nil))
	// Receiver is not mutated.
	assert.Equal(t, TagList{"a", "b"}, l)
}

func TestTagListWithout(t *testing.T) {
	l := TagList{"a", "b", "a", "c"}
	assert.Equal(t, TagList{"b", "c"}, l.Without([]string{"a"}))
	// Removing an absent ID is a no-op.
	assert.Equal(t, l, l.Without([]string{"zzz"}))
}

func TestPriorityRank(t *testing.T) {
	assert.True(t, Priority("high").Rank() < Priority("medium").Rank())
	assert.True(t, Priority("medium").Rank() < Priority("low").Rank())
	assert.True(t, Priority("low").Rank() < Priority("urgent").Rank())
	assert.False(t, Priority("urgent").Valid())
	assert.True(t, PriorityMedium.Valid())
}
