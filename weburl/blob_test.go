package weburl

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStore(t *testing.T) {
	store := NewBlobStore[[]byte]("https://example.com")

	href := store.CreateObjectURL([]byte("hello"))
	require.True(t, strings.HasPrefix(href, "blob:https://example.com/"))

	id := strings.TrimPrefix(href, "blob:https://example.com/")
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	u := MustParse(href)
	assert.Equal(t, "https://example.com", u.Origin())

	t.Run("resolve", func(t *testing.T) {
		obj, err := store.Resolve(href)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), obj)
	})

	t.Run("resolve ignores fragment", func(t *testing.T) {
		obj, err := store.Resolve(href + "#part")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), obj)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := store.Resolve("blob:https://example.com/" + uuid.NewString())
		assert.ErrorIs(t, err, ErrBlobNotFound)
	})

	t.Run("not a blob url", func(t *testing.T) {
		_, err := store.Resolve("https://example.com/x")
		assert.ErrorIs(t, err, ErrBlobNotFound)
	})

	t.Run("unparsable", func(t *testing.T) {
		_, err := store.Resolve("::")
		assert.ErrorIs(t, err, ErrMalformedInput)
	})

	t.Run("revoke", func(t *testing.T) {
		other := store.CreateObjectURL([]byte("bye"))
		assert.Equal(t, 2, store.Len())

		store.RevokeObjectURL(other)
		assert.Equal(t, 1, store.Len())

		_, err := store.Resolve(other)
		assert.ErrorIs(t, err, ErrBlobNotFound)

		store.RevokeObjectURL("blob:https://example.com/unknown")
		assert.Equal(t, 1, store.Len())
	})

	t.Run("revoke ignores fragment", func(t *testing.T) {
		other := store.CreateObjectURL([]byte("frag"))
		assert.Equal(t, 2, store.Len())

		store.RevokeObjectURL(other + "#x")
		assert.Equal(t, 1, store.Len())

		_, err := store.Resolve(other)
		assert.ErrorIs(t, err, ErrBlobNotFound)

		store.RevokeObjectURL("::")
		assert.Equal(t, 1, store.Len())
	})
}

func TestBlobStoreNullOrigin(t *testing.T) {
	store := NewBlobStore[string]("")
	href := store.CreateObjectURL("x")
	assert.True(t, strings.HasPrefix(href, "blob:null/"))
	assert.Equal(t, "null", MustParse(href).Origin())
}

func TestBlobStoreConcurrent(t *testing.T) {
	store := NewBlobStore[int]("https://example.com")

	var wg sync.WaitGroup
	hrefs := make([]string, 50)
	for i := range hrefs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hrefs[i] = store.CreateObjectURL(i)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, len(hrefs), store.Len())
	for i, href := range hrefs {
		obj, err := store.Resolve(href)
		require.NoError(t, err)
		assert.Equal(t, i, obj)
	}
}
