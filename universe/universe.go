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

// Package universe provides an in-memory apis.Universe: the set of entity
// descriptors known to the process, addressable by exact identity or by
// namespace and case-insensitive type name.
package universe

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/patrickmn/go-cache"
	"golang.org/x/text/cases"

	"dirpx.dev/modelreg/apis"
)

var (
	// ErrNilDescriptor is returned when Add is given a nil descriptor.
	ErrNilDescriptor = errors.New("modelreg(universe): nil descriptor")
	// ErrConflictingDescriptor indicates a second, different descriptor for
	// an identity (or a case-insensitive variant of it) already present.
	ErrConflictingDescriptor = errors.New("modelreg(universe): conflicting descriptor")
)

// Universe is safe for concurrent use. Reads are lock-free.
type Universe struct {
	// mu serializes writers and keeps count consistent.
	mu sync.Mutex
	// byID maps apis.Identity to apis.Descriptor.
	byID sync.Map
	// byKey maps the folded "namespace.name" key to apis.Descriptor.
	byKey sync.Map
	// folds memoizes case folding of type names; cases.Caser is not safe
	// for concurrent use, so each miss folds with a fresh caser.
	folds *cache.Cache
	count int
}

// New returns a Universe holding descs.
func New(descs ...apis.Descriptor) (*Universe, error) {
	u := &Universe{folds: cache.New(cache.NoExpiration, 0)}
	for _, d := range descs {
		if err := u.Add(d); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// MustNew is like New but panics on error.
func MustNew(descs ...apis.Descriptor) *Universe {
	u, err := New(descs...)
	if err != nil {
		panic(err)
	}
	return u
}

// Add makes d known. Adding a descriptor whose identity is already present
// is a no-op and the first descriptor wins; adding one whose type name only
// folds to an existing one ("Post" vs "POST") fails with
// ErrConflictingDescriptor.
func (u *Universe) Add(d apis.Descriptor) error {
	if d == nil {
		return ErrNilDescriptor
	}
	id := d.Identity()
	if id.Namespace == "" || id.Name == "" {
		return apis.NewConfigurationError(id, "identity", "namespace and name are required")
	}
	key := u.key(id.Namespace, id.Name)

	if old, ok := u.byKey.Load(key); ok {
		return conflict(old.(apis.Descriptor), d)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if old, ok := u.byKey.Load(key); ok {
		return conflict(old.(apis.Descriptor), d)
	}
	u.byKey.Store(key, d)
	u.byID.Store(id, d)
	u.count++
	return nil
}

func conflict(old, d apis.Descriptor) error {
	if old == d || old.Identity() == d.Identity() {
		return nil
	}
	return fmt.Errorf("%w: %s already known as %s", ErrConflictingDescriptor, d.Identity(), old.Identity())
}

// Get returns the descriptor for an exact identity.
func (u *Universe) Get(id apis.Identity) (apis.Descriptor, bool) {
	if v, ok := u.byID.Load(id); ok {
		return v.(apis.Descriptor), true
	}
	return nil, false
}

// Lookup matches namespace exactly and name case-insensitively.
func (u *Universe) Lookup(namespace, name string) (apis.Descriptor, bool) {
	if namespace == "" || name == "" {
		return nil, false
	}
	if v, ok := u.byKey.Load(u.key(namespace, name)); ok {
		return v.(apis.Descriptor), true
	}
	return nil, false
}

// Descriptors returns every descriptor sorted by identity string.
func (u *Universe) Descriptors() []apis.Descriptor {
	out := make([]apis.Descriptor, 0, u.Count())
	u.byID.Range(func(_, v any) bool {
		out = append(out, v.(apis.Descriptor))
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Identity().String() < out[j].Identity().String()
	})
	return out
}

// Count returns the number of known descriptors.
func (u *Universe) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.count
}

// Reset forgets every descriptor.
func (u *Universe) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.byID = sync.Map{}
	u.byKey = sync.Map{}
	u.count = 0
}

func (u *Universe) key(namespace, name string) string {
	return namespace + apis.IdentifierSeparator + u.fold(name)
}

func (u *Universe) fold(name string) string {
	if v, ok := u.folds.Get(name); ok {
		return v.(string)
	}
	folded := cases.Fold().String(name)
	u.folds.SetDefault(name, folded)
	return folded
}

// Compile-time check.
var _ apis.Universe = (*Universe)(nil)

