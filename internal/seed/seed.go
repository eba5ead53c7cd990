// Package seed decodes Publisher seed definitions.
//
// A seed file is YAML (or JSON) holding either a single mapping of publisher
// fields or a "publishers" list of such mappings. Several YAML documents may
// share one file. Definitions are returned in file order; LoadFS visits files
// in lexical order.
package seed

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is one literal field mapping, keyed by publisher field name.
type Definition map[string]any

const listKey = "publishers"

//go:embed publishers/*.yaml
var defaultsFS embed.FS

// Defaults returns the seed set shipped with the binary.
func Defaults() ([]Definition, error) {
	return LoadFS(defaultsFS, "publishers")
}

// LoadFS reads every .yaml, .yml and .json file directly under dir.
// A directory without seed files is an error.
func LoadFS(fsys fs.FS, dir string) ([]Definition, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read seed dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(path.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no seed files found in %s", dir)
	}
	sort.Strings(names)

	var defs []Definition
	for _, name := range names {
		p := path.Join(dir, name)
		f, err := fsys.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open seed %s: %w", p, err)
		}
		var got []Definition
		if strings.EqualFold(path.Ext(name), ".json") {
			got, err = DecodeJSON(f)
		} else {
			got, err = Decode(f)
		}
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode seed %s: %w", p, err)
		}
		defs = append(defs, got...)
	}
	return defs, nil
}

// Decode reads YAML documents from r.
func Decode(r io.Reader) ([]Definition, error) {
	dec := yaml.NewDecoder(r)
	var defs []Definition
	for {
		var doc map[string]any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		got, err := expand(doc)
		if err != nil {
			return nil, err
		}
		defs = append(defs, got...)
	}
	return defs, nil
}

// DecodeJSON reads JSON documents from r. Concatenated objects are read in
// order; anything that is not a complete object is an error.
func DecodeJSON(r io.Reader) ([]Definition, error) {
	dec := json.NewDecoder(r)
	var defs []Definition
	for {
		var doc map[string]any
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		got, err := expand(doc)
		if err != nil {
			return nil, err
		}
		defs = append(defs, got...)
	}
	return defs, nil
}

// expand turns one decoded document into definitions. Empty documents
// yield nothing.
func expand(doc map[string]any) ([]Definition, error) {
	if len(doc) == 0 {
		return nil, nil
	}
	list, ok := doc[listKey]
	if !ok || len(doc) != 1 {
		return []Definition{Definition(doc)}, nil
	}

	items, ok := list.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list, got %T", listKey, list)
	}
	defs := make([]Definition, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected a mapping, got %T", listKey, i, item)
		}
		defs = append(defs, Definition(m))
	}
	return defs, nil
}
