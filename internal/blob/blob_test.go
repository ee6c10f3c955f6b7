package blob

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)
	return store
}

func TestStore_PutGetDelete(t *testing.T) {
	store := testStore(t)

	name := TemplatePrefix + "/feuille.pdf"
	require.NoError(t, store.Put(name, []byte("%PDF-1.7 contenu")))

	data, ok, err := store.Get(name)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF-1.7 contenu"), data)

	require.NoError(t, store.Delete(name))
	_, ok, err = store.Get(name)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_GetAbsent(t *testing.T) {
	store := testStore(t)

	_, ok, err := store.Get(TemplatePrefix + "/absent.pdf")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_DeleteAbsentIsNoop(t *testing.T) {
	store := testStore(t)
	assert.NoError(t, store.Delete(GeneratedPrefix+"/absent.pdf"))
}

func TestStore_PutOverwrites(t *testing.T) {
	store := testStore(t)

	name := TemplatePrefix + "/feuille.pdf"
	require.NoError(t, store.Put(name, []byte("v1")))
	require.NoError(t, store.Put(name, []byte("v2")))

	data, ok, err := store.Get(name)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), data)
}

func TestStore_List(t *testing.T) {
	store := testStore(t)

	require.NoError(t, store.Put(TemplatePrefix+"/b.pdf", []byte("b")))
	require.NoError(t, store.Put(TemplatePrefix+"/a.pdf", []byte("a")))
	require.NoError(t, store.Put(GeneratedPrefix+"/out.pdf", []byte("o")))

	names, err := store.List(TemplatePrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{TemplatePrefix + "/a.pdf", TemplatePrefix + "/b.pdf"}, names)

	names, err = store.List("nothing")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_RejectsEscapingNames(t *testing.T) {
	store := testStore(t)

	// Path traversal collapses back inside the root instead of escaping it.
	require.NoError(t, store.Put("../../etc/passwd", []byte("x")))
	data, ok, err := store.Get("etc/passwd")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("x"), data)

	assert.Error(t, store.Put("", []byte("x")))
	assert.Error(t, store.Put("..", []byte("x")))
}
