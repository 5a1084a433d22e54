package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_PreservesInsertionOrder(t *testing.T) {
	reg := NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		reg.Add(&EntityProfile{EntityID: id})
	}

	var order []string
	reg.Each(func(p *EntityProfile) bool {
		order = append(order, p.EntityID)
		return true
	})
	assert.Equal(t, []string{"c", "a", "b"}, order)
}

func TestRegistry_JSONRoundTripKeepsOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Add(&EntityProfile{EntityID: "p2", PrimaryName: "Bob", KnownIDs: []string{"2"}})
	reg.Add(&EntityProfile{EntityID: "p1", PrimaryName: "Alice", KnownIDs: []string{"1"}})

	data, err := json.Marshal(reg)
	require.NoError(t, err)

	decoded := NewRegistry()
	require.NoError(t, json.Unmarshal(data, decoded))

	assert.Equal(t, 2, decoded.Len())
	var order []string
	decoded.Each(func(p *EntityProfile) bool {
		order = append(order, p.EntityID)
		return true
	})
	assert.Equal(t, []string{"p2", "p1"}, order)
	assert.Equal(t, "Bob", decoded.Get("p2").PrimaryName)
}

func TestEntityProfile_AppendOnlySets(t *testing.T) {
	p := &EntityProfile{EntityID: "p1"}

	p.AddID("1001")
	p.AddID("1001")
	p.AddID("1002")
	p.AddName("Alice")
	p.AddName("Alice")

	assert.Equal(t, []string{"1001", "1002"}, p.KnownIDs)
	assert.Equal(t, []string{"Alice"}, p.KnownNames)
	assert.True(t, p.HasID("1002"))
	assert.False(t, p.HasID("1003"))
	assert.True(t, p.HasName("Alice"))
	assert.False(t, p.HasName("alice"), "matching is case-sensitive")
}
