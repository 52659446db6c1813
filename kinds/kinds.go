/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package kinds maps field kinds to their per-surface defaults. Factories
// consult a Table instead of switching on kinds, so supporting a new kind is
// a matter of registering one Behavior.
package kinds

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"dirpx.dev/modelreg/apis"
)

// ErrUnknownKind is returned by Lookup for kinds without a Behavior.
var ErrUnknownKind = errors.New("modelreg(kinds): no behavior for kind")

// Filter lookups.
const (
	LookupExact     = "exact"
	LookupIContains = "icontains"
	LookupRange     = "range"
	LookupBoolean   = "boolean"
	LookupIn        = "in"
	LookupIsNull    = "isnull"
)

// Column alignment.
const (
	AlignLeft   = "left"
	AlignRight  = "right"
	AlignCenter = "center"
)

// Input describes the form widget of a kind.
type Input struct {
	Widget string
	// Omit marks kinds that cannot be edited through a form.
	Omit bool
}

// Column describes a table column.
type Column struct {
	Sortable bool
	Align    string
	Omit     bool
}

// Filter describes a query filter.
type Filter struct {
	Lookup string
	// Validate checks a raw filter value. Nil accepts anything.
	Validate func(string) error
	Omit     bool
}

// Wire describes the serialized shape.
type Wire struct {
	// Scalar is the GraphQL scalar name.
	Scalar string
	// Custom marks scalars that are not built into GraphQL.
	Custom bool
	Omit   bool
}

// Export describes a bulk import/export column.
type Export struct {
	// Format is the textual layout of cell values.
	Format string
	Omit   bool
}

// Admin describes list-view treatment.
type Admin struct {
	ListFilter bool
	Searchable bool
	Omit       bool
}

// Behavior bundles the defaults of one kind for every surface.
type Behavior struct {
	Input  Input
	Column Column
	Filter Filter
	Wire   Wire
	Export Export
	Admin  Admin
}

// Omitted reports whether the kind is left out of surface s.
func (b Behavior) Omitted(s apis.Surface) bool {
	switch s {
	case apis.SurfaceForm:
		return b.Input.Omit
	case apis.SurfaceTable:
		return b.Column.Omit
	case apis.SurfaceFilter:
		return b.Filter.Omit
	case apis.SurfaceSerializer:
		return b.Wire.Omit
	case apis.SurfaceResource:
		return b.Export.Omit
	case apis.SurfaceAdmin:
		return b.Admin.Omit
	}
	return false
}

// Table is a concurrency-safe Kind to Behavior map.
type Table struct {
	mu sync.RWMutex
	m  map[apis.Kind]Behavior
}

// New returns an empty Table.
func New() *Table {
	return &Table{m: make(map[apis.Kind]Behavior)}
}

// Default returns a fresh Table preloaded with every apis kind.
func Default() *Table {
	t := New()
	for k, b := range builtin() {
		t.m[k] = b
	}
	return t
}

// Register adds or replaces the Behavior of k.
func (t *Table) Register(k apis.Kind, b Behavior) error {
	if k == "" {
		return fmt.Errorf("%w: empty kind", ErrUnknownKind)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[k] = b
	return nil
}

// Lookup returns the Behavior of k or an error wrapping ErrUnknownKind.
func (t *Table) Lookup(k apis.Kind) (Behavior, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	b, ok := t.m[k]
	if !ok {
		return Behavior{}, fmt.Errorf("%w %q", ErrUnknownKind, k)
	}
	return b, nil
}

// Kinds returns the registered kinds sorted by name.
func (t *Table) Kinds() []apis.Kind {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]apis.Kind, 0, len(t.m))
	for k := range t.m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
