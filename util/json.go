// util/json.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

///////////////////////////////////////////////////////////////////////////
// JSON

// DuplicateJSONKey represents a duplicate key found in JSON.
type DuplicateJSONKey struct {
	Path string // JSON path to the object holding the duplicate (e.g., "airports.KSEA")
	Key  string
}

// FindDuplicateJSONKeys returns all of the keys that appear more than once
// in the same object. encoding/json silently keeps the last one, which
// hides mistakes in hand-edited navigation data.
func FindDuplicateJSONKeys(data []byte) []DuplicateJSONKey {
	dec := json.NewDecoder(bytes.NewReader(data))
	var dups []DuplicateJSONKey
	_ = walkJSONValue(dec, nil, &dups)
	return dups
}

// walkJSONValue consumes one JSON value from dec.
func walkJSONValue(dec *json.Decoder, path []string, dups *[]DuplicateJSONKey) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch tok {
	case json.Delim('{'):
		seen := make(map[string]bool)
		for dec.More() {
			ktok, err := dec.Token()
			if err != nil {
				return err
			}
			key, _ := ktok.(string)
			if seen[key] {
				*dups = append(*dups, DuplicateJSONKey{Path: strings.Join(path, "."), Key: key})
			}
			seen[key] = true

			if err := walkJSONValue(dec, append(path, key), dups); err != nil {
				return err
			}
		}
		_, err = dec.Token() // }
		return err

	case json.Delim('['):
		for dec.More() {
			if err := walkJSONValue(dec, path, dups); err != nil {
				return err
			}
		}
		_, err = dec.Token() // ]
		return err

	default:
		return nil
	}
}

func UnmarshalJSON[T any](r io.Reader, out *T) error {
	// Unfortunately we need the contents as an array of bytes so that we
	// can issue reasonable errors.
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return UnmarshalJSONBytes(b, out)
}

// Unmarshal the bytes into the given type but go through some efforts to
// return useful error messages when the JSON is invalid...
func UnmarshalJSONBytes[T any](b []byte, out *T) error {
	err := json.Unmarshal(b, out)
	if err == nil {
		return nil
	}

	decodeOffset := func(offset int64) (line, char int) {
		line, char = 1, 1
		for i := 0; i < int(offset) && i < len(b); i++ {
			if b[i] == '\n' {
				line++
				char = 1
			} else {
				char++
			}
		}
		return
	}

	var serr *json.SyntaxError
	var terr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &serr):
		line, char := decodeOffset(serr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %w", line, char, serr)

	case errors.As(err, &terr):
		line, char := decodeOffset(terr.Offset)
		return fmt.Errorf("Error at line %d, character %d: %s value for %s invalid for type %s",
			line, char, terr.Value, terr.Field, terr.Type.String())

	default:
		return err
	}
}
