// util/json.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
)

///////////////////////////////////////////////////////////////////////////
// JSON

// DuplicateJSONKey represents a duplicate key found in JSON.
type DuplicateJSONKey struct {
	Path string // JSON path to the object holding the duplicate (e.g., "drag")
	Key  string // The duplicate key name
}

// FindDuplicateJSONKeys scans JSON content and returns all duplicate keys
// found; encoding/json silently keeps the last value for a repeated key.
func FindDuplicateJSONKeys(data []byte) []DuplicateJSONKey {
	dec := json.NewDecoder(bytes.NewReader(data))
	var dups []DuplicateJSONKey

	var walk func(path []string) error
	walk = func(path []string) error {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		delim, ok := tok.(json.Delim)
		if !ok {
			return nil
		}

		switch delim {
		case '{':
			seen := make(map[string]bool)
			for dec.More() {
				ktok, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := ktok.(string)
				if seen[key] {
					dups = append(dups, DuplicateJSONKey{Path: strings.Join(path, "."), Key: key})
				}
				seen[key] = true
				if err := walk(append(path, key)); err != nil {
					return err
				}
			}
		case '[':
			for dec.More() {
				if err := walk(path); err != nil {
					return err
				}
			}
		}
		_, err = dec.Token() // closing delimiter
		return err
	}

	// Syntax errors are reported by UnmarshalJSONBytes; keep what was found.
	_ = walk(nil)
	return dups
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

	switch jerr := err.(type) {
	case *json.SyntaxError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("line %d, character %d: %w", line, char, jerr)

	case *json.UnmarshalTypeError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("line %d, character %d: %s value for %s.%s invalid for type %s: %w",
			line, char, jerr.Value, jerr.Struct, jerr.Field, jerr.Type.String(), jerr)

	default:
		return err
	}
}

///////////////////////////////////////////////////////////////////////////

// JSONChecker is implemented by types with custom JSON unmarshalers so
// that CheckJSON can tell whether a raw unmarshaled value is acceptable
// for them.
type JSONChecker interface {
	CheckJSON(json any) bool
}

var jsonCheckerType = reflect.TypeFor[JSONChecker]()

// CheckJSON checks whether the provided JSON is syntactically valid and
// then typechecks it with respect to the provided type T, reporting
// unknown and misspelled object keys as well as duplicate ones.
func CheckJSON[T any](contents []byte, e *ErrorLogger) {
	defer e.CheckDepth(e.CurrentDepth())

	var items any
	if err := UnmarshalJSONBytes(contents, &items); err != nil {
		e.Error(err)
		return
	}

	for _, dup := range FindDuplicateJSONKeys(contents) {
		if dup.Path != "" {
			e.Push(dup.Path)
		}
		e.ErrorString("%q is specified more than once", dup.Key)
		if dup.Path != "" {
			e.Pop()
		}
	}

	typeCheckJSON(items, reflect.TypeFor[T](), e)
}

func typeCheckJSON(v any, ty reflect.Type, e *ErrorLogger) {
	for ty.Kind() == reflect.Pointer {
		ty = ty.Elem()
	}

	if ty.Implements(jsonCheckerType) || reflect.PointerTo(ty).Implements(jsonCheckerType) {
		if !reflect.New(ty).Interface().(JSONChecker).CheckJSON(v) {
			e.ErrorString("unexpected value %v", v)
		}
		return
	}

	switch ty.Kind() {
	case reflect.Slice, reflect.Array:
		items, ok := v.([]any)
		if !ok {
			e.ErrorString("expected an array, got %T", v)
			return
		}
		for _, item := range items {
			typeCheckJSON(item, ty.Elem(), e)
		}

	case reflect.Map:
		m, ok := v.(map[string]any)
		if !ok {
			e.ErrorString("expected an object, got %T", v)
			return
		}
		for k, item := range m {
			e.Push(k)
			typeCheckJSON(item, ty.Elem(), e)
			e.Pop()
		}

	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			e.ErrorString("expected an object, got %T", v)
			return
		}
		fields := make(map[string]reflect.Type)
		for _, f := range reflect.VisibleFields(ty) {
			if tag, ok := f.Tag.Lookup("json"); ok {
				name, _, _ := strings.Cut(tag, ",")
				fields[name] = f.Type
			}
		}
		for k, item := range m {
			fty, ok := fields[k]
			if !ok {
				e.ErrorString("The entry %q is not an expected JSON object. Is it misspelled?", k)
				continue
			}
			e.Push(k)
			typeCheckJSON(item, fty, e)
			e.Pop()
		}

	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		if _, ok := v.(float64); !ok {
			e.ErrorString("expected a number, got %T", v)
		}

	case reflect.String:
		if _, ok := v.(string); !ok {
			e.ErrorString("expected a string, got %T", v)
		}
	}
}
