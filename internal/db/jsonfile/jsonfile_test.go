package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "collection_test.json")
	theStorage := New(fileName)

	collection := map[string]string{
		"one": "first",
		"two": "second",
	}

	err := theStorage.Save(collection)
	require.NoError(t, err, "The `theStorage.Save()` should not return error")

	loaded := map[string]string{}
	err = New(fileName).Load(&loaded)
	require.NoError(t, err, "The `theStorage.Load()` should not return error")
	assert.Equal(t, collection, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	theStorage := New(filepath.Join(t.TempDir(), "nonexistent.json"))

	dest := map[string]string{}
	err := theStorage.Load(&dest)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err), "a missing file should be reported via os.IsNotExist")
}

func TestLoadUnparsableFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "garbage.json")
	err := os.WriteFile(fileName, []byte("{not json"), 0644)
	require.NoError(t, err)

	dest := map[string]string{}
	err = New(fileName).Load(&dest)
	assert.Error(t, err, "an unparsable file should be reported to the caller")
	assert.False(t, os.IsNotExist(err))
}

func TestSaveOverwritesPreviousContent(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "collection_test.json")
	theStorage := New(fileName)

	err := theStorage.Save(map[string]string{"one": "first", "two": "second"})
	require.NoError(t, err)

	err = theStorage.Save(map[string]string{"one": "first"})
	require.NoError(t, err)

	loaded := map[string]string{}
	err = theStorage.Load(&loaded)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"one": "first"}, loaded, "Save should replace the whole file")
}
