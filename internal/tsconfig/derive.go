package tsconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tailscale/hujson"
)

// Derived is the temporary configuration handed to the checker.
type Derived struct {
	// Files is the explicit file list written to "files".
	Files []string
	// Data is the configuration as indented JSON.
	Data []byte
}

// patchOp is one RFC 6902 operation.
type patchOp struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

// Derive builds the temporary configuration for files.
//
// Every top-level key of cfg is kept in place. compilerOptions gains
// skipLibCheck: true, files becomes the given list and include becomes empty
// so only files governs what is checked. cfg itself is left untouched.
func Derive(cfg *Config, files []string) (*Derived, error) {
	doc := cfg.doc.Clone()

	filesJSON, err := marshal(files)
	if err != nil {
		return nil, fmt.Errorf("encoding files: %w", err)
	}

	var ops []patchOp
	switch opts := doc.Find("/compilerOptions"); {
	case opts == nil:
		ops = append(ops, set(&doc, "/compilerOptions", []byte(`{"skipLibCheck":true}`)))
	case isObject(opts):
		ops = append(ops, set(&doc, "/compilerOptions/skipLibCheck", []byte(`true`)))
	default:
		ops = append(ops, set(&doc, "/compilerOptions", []byte(`{"skipLibCheck":true}`)))
	}
	ops = append(ops,
		set(&doc, "/files", filesJSON),
		set(&doc, "/include", []byte(`[]`)),
	)

	patch, err := marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("encoding patch: %w", err)
	}
	if err := doc.Patch(patch); err != nil {
		return nil, &LoadError{Kind: KindParse, Path: cfg.Path, Err: fmt.Errorf("applying overrides: %w", err)}
	}

	data, err := indent(doc.Pack())
	if err != nil {
		return nil, &LoadError{Kind: KindParse, Path: cfg.Path, Err: err}
	}
	if err := Validate(data); err != nil {
		return nil, &LoadError{Kind: KindSchema, Path: cfg.Path, Err: err}
	}

	return &Derived{
		Files: append([]string(nil), files...),
		Data:  data,
	}, nil
}

// set replaces the member at path when it exists and adds it otherwise.
func set(doc *hujson.Value, path string, value []byte) patchOp {
	op := "add"
	if doc.Find(path) != nil {
		op = "replace"
	}
	return patchOp{Op: op, Path: path, Value: value}
}

func isObject(v *hujson.Value) bool {
	_, ok := v.Value.(*hujson.Object)
	return ok
}

// marshal encodes v without HTML escaping so paths stay readable.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func compact(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// indent pretty-prints with two spaces, keeping key order.
func indent(data []byte) ([]byte, error) {
	flat, err := compact(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, flat, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
