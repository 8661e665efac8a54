// Package dataset holds one Spec per raw institutional export: the exclusion
// rules, the ID sequence parameters and the mapping tree builder that turn
// that export into the canonical table. Specs register themselves at init
// time and are looked up by name from the CLI.
package dataset

import (
	"fmt"
	"sort"

	"lyproxify/internal/mapping"
	"lyproxify/internal/transform"
)

// Spec describes one dataset end to end. Build receives the run's ID
// sequence and returns a fresh mapping tree; it is called once per run so
// generated identifiers never leak state between runs.
type Spec struct {
	Name        string
	Institution string
	IDPrefix    string
	IDStart     int

	// Comma is the raw CSV delimiter; zero means ','.
	Comma rune

	Exclude []transform.ExcludeRule
	Build   func(ids *transform.IDSequence) mapping.Tree
}

var registry = map[string]Spec{}

// Register adds a Spec under its name. Duplicate or unnamed registrations
// are programmer errors and panic at init time.
func Register(s Spec) {
	if s.Name == "" {
		panic("dataset: Register with empty name")
	}
	if s.Build == nil {
		panic("dataset: Register " + s.Name + " without a tree builder")
	}
	if _, dup := registry[s.Name]; dup {
		panic("dataset: duplicate registration of " + s.Name)
	}
	registry[s.Name] = s
}

// Get returns the Spec registered under name.
func Get(name string) (Spec, error) {
	s, ok := registry[name]
	if !ok {
		return Spec{}, fmt.Errorf("unknown dataset %q (have %v)", name, Names())
	}
	return s, nil
}

// Names lists the registered dataset names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
