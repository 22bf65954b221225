// Package jsonfile persists a whole record collection to a single
// JSON file. Each repository owns one file; the file is parsed once
// at startup and rewritten after every mutation. There is no file
// locking and no atomic rename: concurrent processes writing the same
// file race, last write wins.
package jsonfile

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONFile is a load/save backend over a single file.
type JSONFile struct {
	fileName string
}

// New returns a JSONFile bound to fileName. The file is not touched
// until Load or Save is called.
func New(fileName string) *JSONFile {
	return &JSONFile{fileName: fileName}
}

// Load parses the file into dest. A missing file is reported via an
// error satisfying os.IsNotExist so callers can start empty.
func (f *JSONFile) Load(dest interface{}) error {
	file, err := os.Open(f.fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	err = decoder.Decode(dest)
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", f.fileName, err)
	}

	return nil
}

// Save serializes data and overwrites the file.
func (f *JSONFile) Save(data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	file, err2 := os.OpenFile(f.fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err2 != nil {
		return fmt.Errorf("error opening file: %w", err2)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return nil
}
