// Package tsconfig reads a project's tsconfig.json and derives the
// temporary configuration that restricts tsc to a fixed set of files.
package tsconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// DefaultFileName is the config read when no project override is given.
const DefaultFileName = "tsconfig.json"

// utf8BOM is written by some Windows editors; tsc ignores it.
var utf8BOM = []byte("\xEF\xBB\xBF")

// ErrorKind classifies a LoadError.
type ErrorKind int

const (
	// KindRead means the file could not be read.
	KindRead ErrorKind = iota
	// KindParse means the content is not valid relaxed JSON or not an object.
	KindParse
	// KindTypeRoots means a typeRoots entry could not be listed.
	KindTypeRoots
	// KindSchema means the derived config failed validation.
	KindSchema
)

func (k ErrorKind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindParse:
		return "parse"
	case KindTypeRoots:
		return "typeRoots"
	case KindSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// LoadError reports a failure to produce a usable configuration.
type LoadError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("tsconfig %s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Config is a parsed project configuration.
//
// The document is held comment-free and in source key order so the derived
// file keeps the layout of the original.
type Config struct {
	Path string
	doc  hujson.Value
}

// CompilerOptions is the typed subset of compilerOptions the tool reads.
type CompilerOptions struct {
	TypeRoots []string `json:"typeRoots"`
}

// Resolve returns the config path for an invocation: override when set,
// otherwise tsconfig.json under root.
func Resolve(root, override string) string {
	if override != "" {
		return override
	}
	return filepath.Join(root, DefaultFileName)
}

// Load reads and parses the config at path. Comments and trailing commas are
// accepted; the file is never evaluated or written.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Kind: KindRead, Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse parses relaxed JSON content. path is used for error reporting only.
func Parse(path string, data []byte) (*Config, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	doc, err := hujson.Parse(data)
	if err != nil {
		return nil, &LoadError{Kind: KindParse, Path: path, Err: err}
	}
	doc.Standardize()
	collapseDuplicates(&doc)

	if _, ok := doc.Value.(*hujson.Object); !ok {
		return nil, &LoadError{
			Kind: KindParse,
			Path: path,
			Err:  fmt.Errorf("top level must be an object"),
		}
	}

	return &Config{Path: path, doc: doc}, nil
}

// CompilerOptions decodes the typed view of compilerOptions. A missing or
// non-object compilerOptions yields the zero value.
func (c *Config) CompilerOptions() (CompilerOptions, error) {
	var opts CompilerOptions

	roots := c.doc.Find("/compilerOptions/typeRoots")
	if roots == nil {
		return opts, nil
	}
	if err := json.Unmarshal(roots.Pack(), &opts.TypeRoots); err != nil {
		return opts, &LoadError{
			Kind: KindParse,
			Path: c.Path,
			Err:  fmt.Errorf("compilerOptions.typeRoots: %w", err),
		}
	}
	return opts, nil
}

// JSON returns the standardized document as compact JSON.
func (c *Config) JSON() ([]byte, error) {
	return compact(c.doc.Pack())
}

// collapseDuplicates keeps one member per name in every object, at the
// position of its first occurrence and holding its last value.
func collapseDuplicates(doc *hujson.Value) {
	doc.Range(func(v *hujson.Value) bool {
		obj, ok := v.Value.(*hujson.Object)
		if !ok {
			return true
		}
		seen := make(map[string]int, len(obj.Members))
		members := obj.Members[:0]
		for _, m := range obj.Members {
			name := m.Name.Value.(hujson.Literal).String()
			if i, ok := seen[name]; ok {
				members[i].Value.Value = m.Value.Value
				continue
			}
			seen[name] = len(members)
			members = append(members, m)
		}
		if n := len(members); n > 0 && n < len(obj.Members) {
			// A trailing comma is packed when the last value has AfterExtra.
			members[n-1].Value.AfterExtra = nil
		}
		obj.Members = members
		return true
	})
}
