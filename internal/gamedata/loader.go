package gamedata

import (
	"encoding/json"
	"fmt"
	"io/fs"
)

// Load decodes a JSON file from the embedded data.
func Load[T any](name string) (T, error) {
	return LoadFS[T](dataFS, name)
}

// LoadFS decodes a JSON file from fsys. Unknown fields are an error.
func LoadFS[T any](fsys fs.FS, name string) (T, error) {
	var out T

	f, err := fsys.Open(name)
	if err != nil {
		return out, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}
