package weburl

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchParamsSet(t *testing.T) {
	p := NewSearchParams("a=1&b=2&a=3")
	assert.Equal(t, []string{"1", "3"}, p.GetAll("a"))

	p.Set("a", "9")
	assert.Equal(t, []string{"9"}, p.GetAll("a"))
	assert.Equal(t, []Pair{{"a", "9"}, {"b", "2"}}, p.Pairs())

	p.Set("c", "new")
	assert.Equal(t, []Pair{{"a", "9"}, {"b", "2"}, {"c", "new"}}, p.Pairs())
}

func TestSearchParamsOperations(t *testing.T) {
	t.Run("append", func(t *testing.T) {
		p := NewSearchParams("")
		p.Append("a", "1")
		p.Append("a", "1")
		assert.Equal(t, 2, p.Len())
		assert.Equal(t, "a=1&a=1", p.String())
	})

	t.Run("delete keeps survivor order", func(t *testing.T) {
		p := NewSearchParams("a=1&b=2&a=3&c=4")
		p.Delete("a")
		assert.Equal(t, []Pair{{"b", "2"}, {"c", "4"}}, p.Pairs())

		p.Delete("missing")
		assert.Equal(t, 2, p.Len())
	})

	t.Run("get", func(t *testing.T) {
		p := NewSearchParams("a=1&a=2&empty=")

		v, ok := p.Get("a")
		assert.True(t, ok)
		assert.Equal(t, "1", v)

		v, ok = p.Get("empty")
		assert.True(t, ok)
		assert.Empty(t, v)

		_, ok = p.Get("missing")
		assert.False(t, ok)
	})

	t.Run("get all missing", func(t *testing.T) {
		p := NewSearchParams("a=1")
		assert.Empty(t, p.GetAll("b"))
		assert.NotNil(t, p.GetAll("b"))
	})

	t.Run("has", func(t *testing.T) {
		p := NewSearchParams("?a=1")
		assert.True(t, p.Has("a"))
		assert.False(t, p.Has("?a"))
	})

	t.Run("sort is stable", func(t *testing.T) {
		p := NewSearchParams("z=1&b=1&a=2&b=0&a=1")
		p.Sort()
		assert.Equal(t, "a=2&a=1&b=1&b=0&z=1", p.String())
	})

	t.Run("sort by code point", func(t *testing.T) {
		p, err := NewSearchParamsFromPairs([][]string{{"é", "1"}, {"e", "2"}, {"E", "3"}})
		require.NoError(t, err)
		p.Sort()
		assert.Equal(t, []string{"E", "e", "é"}, slices.Collect(p.Keys()))
	})
}

func TestSearchParamsIteration(t *testing.T) {
	p := NewSearchParams("a=1&b=2&a=3")

	assert.Equal(t, []string{"a", "b", "a"}, slices.Collect(p.Keys()))
	assert.Equal(t, []string{"1", "2", "3"}, slices.Collect(p.Values()))

	var got []Pair
	for name, value := range p.All() {
		got = append(got, Pair{name, value})
	}
	assert.Equal(t, p.Pairs(), got)

	t.Run("early break", func(t *testing.T) {
		n := 0
		for range p.All() {
			n++
			break
		}
		assert.Equal(t, 1, n)
	})
}

func TestSearchParamsConstructors(t *testing.T) {
	t.Run("strips one question mark", func(t *testing.T) {
		p := NewSearchParams("??a=1")
		assert.Equal(t, []Pair{{"?a", "1"}}, p.Pairs())
	})

	t.Run("pairs", func(t *testing.T) {
		p, err := NewSearchParamsFromPairs([][]string{{"a", "1"}, {"a", "2"}})
		require.NoError(t, err)
		assert.Equal(t, "a=1&a=2", p.String())
	})

	t.Run("invalid pair", func(t *testing.T) {
		_, err := NewSearchParamsFromPairs([][]string{{"a", "1"}, {"b"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidPair)
		assert.Contains(t, err.Error(), "item 1")
	})

	t.Run("map sorted", func(t *testing.T) {
		m := map[string]string{"b": "2", "a": "1", "c": "3"}
		p := NewSearchParamsFromMap(m)
		assert.Equal(t, slices.Sorted(maps.Keys(m)), slices.Collect(p.Keys()))
		assert.Equal(t, "a=1&b=2&c=3", p.String())
	})

	t.Run("standalone list has no url", func(t *testing.T) {
		p := NewSearchParams("a=1")
		assert.NotPanics(t, func() { p.Append("b", "2") })
	})
}

func TestSearchParamsSerialization(t *testing.T) {
	p := NewSearchParams("q=a+b&x=%26")
	assert.Equal(t, "q=a+b&x=%26", p.String())

	p.Append("sym", "~!'()")
	assert.Equal(t, "q=a+b&x=%26&sym=%7E%21%27%28%29", p.String())
}
