package ordmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapLastWriteWinsKeepsOrder(t *testing.T) {
	var m Map[string, string]
	m.Set("PATH", "/bin")
	m.Set("MAILTO", "root")
	m.Set("PATH", "/usr/bin")

	assert.Equal(t, []string{"PATH", "MAILTO"}, m.Keys())
	v, ok := m.Get("PATH")
	assert.True(t, ok)
	assert.Equal(t, "/usr/bin", v)
	assert.Equal(t, 2, m.Len())

	var seen []string
	m.Each(func(k, v string) bool {
		seen = append(seen, k+"="+v)
		return true
	})
	assert.Equal(t, []string{"PATH=/usr/bin", "MAILTO=root"}, seen)
}

func TestMapEachStops(t *testing.T) {
	m := New[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)
	n := 0
	m.Each(func(string, int) bool {
		n++
		return false
	})
	assert.Equal(t, 1, n)
	_, ok := m.Get("missing")
	assert.False(t, ok)
}
