// Package memstore is an in-memory stand-in for the jsonfile backend.
// It keeps the serialized collection in a byte buffer instead of a
// file, so repositories behave exactly as with a file backend but
// leave no trace on disk. Used in tests and when no storage path is
// configured.
package memstore

import (
	"encoding/json"
	"os"
)

type MemStore struct {
	data []byte
}

func New() *MemStore {
	return &MemStore{}
}

// Load decodes the buffered snapshot into dest. An empty store
// reports os.ErrNotExist, mirroring a missing file.
func (m *MemStore) Load(dest interface{}) error {
	if m.data == nil {
		return os.ErrNotExist
	}

	return json.Unmarshal(m.data, dest)
}

// Save replaces the buffered snapshot with the serialized data.
func (m *MemStore) Save(data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	m.data = jsonData

	return nil
}
