package compliance

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed jurisdictions.yaml
var defaultTable []byte

// Entry is one jurisdiction's mandated fraud statement
type Entry struct {
	Code    string `yaml:"code" json:"code"`
	Name    string `yaml:"name" json:"name"`
	Warning string `yaml:"warning" json:"warning"`
}

type document struct {
	Jurisdictions []Entry `yaml:"jurisdictions"`
}

// Table maps jurisdiction codes to entries. It is read-only after Load.
type Table struct {
	entries  []Entry
	byCode   map[string]int
	codeExpr []*regexp.Regexp
	names    []string // Upper-cased names, same order as entries
}

// Default returns the embedded table, parsed once
var Default = sync.OnceValue(func() *Table {
	t, err := Load(bytes.NewReader(defaultTable))
	if err != nil {
		panic(fmt.Sprintf("compliance: embedded table is invalid: %v", err))
	}
	return t
})

// Load parses a YAML jurisdiction table
func Load(r io.Reader) (*Table, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse compliance table: %w", err)
	}
	if len(doc.Jurisdictions) == 0 {
		return nil, fmt.Errorf("compliance table has no jurisdictions")
	}

	t := &Table{
		entries:  make([]Entry, 0, len(doc.Jurisdictions)),
		byCode:   make(map[string]int, len(doc.Jurisdictions)),
		codeExpr: make([]*regexp.Regexp, 0, len(doc.Jurisdictions)),
		names:    make([]string, 0, len(doc.Jurisdictions)),
	}

	for i, e := range doc.Jurisdictions {
		e.Code = strings.ToUpper(strings.TrimSpace(e.Code))
		e.Name = strings.TrimSpace(e.Name)
		e.Warning = strings.TrimSpace(e.Warning)

		if e.Code == "" || e.Name == "" {
			return nil, fmt.Errorf("compliance table entry %d: code and name are required", i)
		}
		if _, dup := t.byCode[e.Code]; dup {
			return nil, fmt.Errorf("compliance table entry %d: duplicate code %q", i, e.Code)
		}

		expr, err := regexp.Compile(`\b` + regexp.QuoteMeta(e.Code) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("compliance table entry %d: %w", i, err)
		}

		t.byCode[e.Code] = len(t.entries)
		t.entries = append(t.entries, e)
		t.codeExpr = append(t.codeExpr, expr)
		t.names = append(t.names, strings.ToUpper(e.Name))
	}

	return t, nil
}

// LoadFile parses a YAML jurisdiction table from disk
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open compliance table: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

// Lookup returns the entry for a code
func (t *Table) Lookup(code string) (Entry, bool) {
	i, ok := t.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Resolve finds the jurisdiction mentioned in a free-form location.
// Entries are scanned in table order; an entry matches when its code appears
// as a standalone word or its full name appears anywhere, ignoring case.
func (t *Table) Resolve(location string) (Entry, bool) {
	if strings.TrimSpace(location) == "" {
		return Entry{}, false
	}

	upper := strings.ToUpper(location)
	for i, e := range t.entries {
		if t.codeExpr[i].MatchString(upper) || strings.Contains(upper, t.names[i]) {
			return e, true
		}
	}

	return Entry{}, false
}

// Entries returns a copy of all entries in table order
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of jurisdictions
func (t *Table) Len() int {
	return len(t.entries)
}
