package formdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelIDAllocator(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     []string
	}{
		{name: "empty set", existing: nil, want: []string{"rId1", "rId2"}},
		{name: "after highest", existing: []string{"rId1", "rId4", "rId2"}, want: []string{"rId5", "rId6"}},
		{name: "non numeric ids ignored", existing: []string{"rIdStyles", "custom", "rId2"}, want: []string{"rId3", "rId4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rels := &Relationships{}
			for _, id := range tt.existing {
				rels.Relationship = append(rels.Relationship, Relationship{ID: id})
			}
			ids := NewRelIDAllocator(rels)

			var got []string
			for range tt.want {
				id, err := ids.Next()
				require.NoError(t, err)
				got = append(got, id)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelIDAllocatorReserve(t *testing.T) {
	ids := NewRelIDAllocator(nil)

	require.NoError(t, ids.Reserve("rId3"))
	err := ids.Reserve("rId3")
	assert.True(t, IsIdentifierCollision(err))

	id, err := ids.Next()
	require.NoError(t, err)
	assert.Equal(t, "rId4", id)
}

func TestRelIDAllocatorExhausted(t *testing.T) {
	ids := NewRelIDAllocator(&Relationships{Relationship: []Relationship{{ID: "rId1"}}})
	ids.limit = 3

	for _, want := range []string{"rId2", "rId3"} {
		id, err := ids.Next()
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}

	_, err := ids.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIdentifierCollision)
	assert.ErrorIs(t, err, errRelIDsExhausted)
}

func TestParseRelID(t *testing.T) {
	n, ok := parseRelID("rId12")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	for _, id := range []string{"", "rId", "rIdx", "rel12", "rId-1"} {
		_, ok := parseRelID(id)
		assert.False(t, ok, id)
	}
}
