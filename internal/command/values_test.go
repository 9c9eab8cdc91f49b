package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValuesOrder(t *testing.T) {
	v := NewValues()
	v.Set("name", "bob")
	v.Set("count", 5)
	v.Set("name", "alice")

	assert.Equal(t, []string{"name", "count"}, v.Keys())
	assert.Equal(t, 2, v.Len())
	assert.True(t, v.Has("count"))
	assert.False(t, v.Has("missing"))
	assert.Equal(t, "{name: alice, count: 5}", v.String())
	assert.Equal(t, map[string]any{"name": "alice", "count": 5}, v.Map())

	var seen []string
	v.Each(func(name string, _ any) { seen = append(seen, name) })
	assert.Equal(t, []string{"name", "count"}, seen)
}

func TestValuesGeneric(t *testing.T) {
	v := NewValues()
	v.Set("count", 5)

	n, ok := Get[int](v, "count")
	assert.True(t, ok)
	assert.Equal(t, 5, n)

	_, ok = Get[string](v, "count")
	assert.False(t, ok)

	_, ok = Get[int](v, "missing")
	assert.False(t, ok)
}

func TestValuesNil(t *testing.T) {
	var v *Values
	assert.Equal(t, 0, v.Len())
	assert.Nil(t, v.Keys())
	assert.False(t, v.Has("x"))
	assert.Equal(t, "{}", v.String())
}

func TestValuesClone(t *testing.T) {
	v := NewValues()
	v.Set("b", 2)
	v.Set("a", 1)

	c := v.Clone()
	c.Set("c", 3)
	c.Set("a", 10)

	assert.Equal(t, "{b: 2, a: 1}", v.String())
	assert.Equal(t, "{b: 2, a: 10, c: 3}", c.String())

	var nilValues *Values
	assert.Equal(t, 0, nilValues.Clone().Len())
}
