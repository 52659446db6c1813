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

// Package registry maps entity identities to their Configurations. It
// detects duplicate registrations, resolves string identifiers through an
// injected universe and binds every registered Configuration to the
// registry's resolver and factories.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"runtime"
	"sync"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/config"
	"dirpx.dev/modelreg/descriptor"
	"dirpx.dev/modelreg/model"
)

// ErrSealed is returned by Register after Seal.
var ErrSealed = errors.New("modelreg(registry): registry is sealed")

// Registry is safe for concurrent use. Lookups are lock-free.
type Registry struct {
	cfg  apis.Config
	uni  apis.Universe
	res  apis.Resolver
	facs apis.FactorySet
	log  *slog.Logger

	// mu guards order, sealed and write-side consistency of m.
	mu sync.Mutex
	// m maps apis.Identity to *entry.
	m      sync.Map
	order  []apis.Identity
	sealed bool
}

// entry is one registration.
type entry struct {
	cfg  *model.Configuration
	site string
}

// adder is implemented by universes that accept new descriptors.
type adder interface {
	Add(apis.Descriptor) error
}

// New constructs a Registry. uni resolves string identifiers and relation
// paths; res and facs are bound to every registered Configuration (nil
// keeps each Configuration's defaults).
func New(cfg apis.Config, uni apis.Universe, res apis.Resolver, facs apis.FactorySet) *Registry {
	return &Registry{
		cfg:  cfg,
		uni:  uni,
		res:  res,
		facs: facs,
		log:  config.Logger(cfg),
	}
}

// Register stores c under its entity's identity. The caller's file:line is
// recorded for duplicate-registration reports.
func (r *Registry) Register(c *model.Configuration) error {
	return r.RegisterWithSite(c, CallerSite(2))
}

// RegisterWithSite is Register with an explicit registration site, for
// callers that register on behalf of someone else (loaders, wrappers).
func (r *Registry) RegisterWithSite(c *model.Configuration, site string) error {
	if c == nil {
		return apis.NewConfigurationError(apis.Identity{}, "configuration", "nil configuration")
	}
	id := c.Identity()

	// Fast read path: duplicates are detected without locking.
	if old, ok := r.m.Load(id); ok {
		return r.duplicate(id, old.(*entry), site)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: cannot register %s", ErrSealed, id)
	}
	// Re-check under lock in case another goroutine stored meanwhile.
	if old, ok := r.m.Load(id); ok {
		return r.duplicate(id, old.(*entry), site)
	}
	if u, ok := r.uni.(adder); ok {
		if err := u.Add(c.Entity()); err != nil {
			return apis.NewConfigurationError(id, "entity", err.Error())
		}
	}

	c.Bind(r.res, r.facs, r.log)
	r.m.Store(id, &entry{cfg: c, site: site})
	r.order = append(r.order, id)
	r.log.Info("modelreg: registered", "entity", id.String(), "site", site)
	return nil
}

func (r *Registry) duplicate(id apis.Identity, old *entry, site string) error {
	r.log.Warn("modelreg: duplicate registration", "entity", id.String(), "first", old.site, "again", site)
	return &apis.DuplicateRegistrationError{Entity: id, OriginalSite: old.site, AttemptedSite: site}
}

// Lookup returns the Configuration for ref, which may be an apis.Identity,
// an apis.Descriptor, a *model.Configuration, a reflect.Type of an entity
// struct, or a "namespace.TypeName" string. Strings go through the
// universe, so the type name is matched case-insensitively.
func (r *Registry) Lookup(ref any) (*model.Configuration, error) {
	id, err := r.identify(ref)
	if err != nil {
		return nil, err
	}
	if e, ok := r.m.Load(id); ok {
		return e.(*entry).cfg, nil
	}
	return nil, &apis.NotRegisteredError{Entity: id}
}

// IsRegistered reports whether Lookup(ref) would succeed. It never fails.
func (r *Registry) IsRegistered(ref any) bool {
	_, err := r.Lookup(ref)
	return err == nil
}

// Site returns where ref was registered.
func (r *Registry) Site(ref any) (string, bool) {
	id, err := r.identify(ref)
	if err != nil {
		return "", false
	}
	e, ok := r.m.Load(id)
	if !ok {
		return "", false
	}
	return e.(*entry).site, true
}

func (r *Registry) identify(ref any) (apis.Identity, error) {
	switch v := ref.(type) {
	case apis.Identity:
		return v, nil
	case *apis.Identity:
		if v == nil {
			break
		}
		return *v, nil
	case *model.Configuration:
		if v == nil {
			break
		}
		return v.Identity(), nil
	case apis.Descriptor:
		if v == nil {
			break
		}
		return v.Identity(), nil
	case reflect.Type:
		id, err := descriptor.IdentityOf(v)
		if err != nil {
			return apis.Identity{}, &apis.NotFoundError{Identifier: fmt.Sprint(v)}
		}
		return id, nil
	case string:
		parsed, err := apis.ParseIdentifier(v)
		if err != nil {
			return apis.Identity{}, err
		}
		if r.uni == nil {
			return apis.Identity{}, &apis.NotFoundError{Identifier: v}
		}
		d, ok := r.uni.Lookup(parsed.Namespace, parsed.Name)
		if !ok {
			return apis.Identity{}, &apis.NotFoundError{Identifier: v}
		}
		return d.Identity(), nil
	}
	return apis.Identity{}, apis.NewConfigurationError(apis.Identity{}, "lookup",
		fmt.Sprintf("unsupported reference %T", ref))
}

// All returns every Configuration in registration order.
func (r *Registry) All() []*model.Configuration {
	r.mu.Lock()
	ids := append([]apis.Identity(nil), r.order...)
	r.mu.Unlock()

	out := make([]*model.Configuration, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.m.Load(id); ok {
			out = append(out, e.(*entry).cfg)
		}
	}
	return out
}

// Count returns the number of registrations.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Check validates the field lists of every registered Configuration and
// returns all failures at once.
func (r *Registry) Check() error {
	var errs []error
	for _, c := range r.All() {
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return apis.NewAggregateError(errs...)
}

// Seal rejects all further registrations.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether Seal was called.
func (r *Registry) Sealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sealed
}

// Reset drops every registration and unseals the registry.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m.Range(func(k, _ any) bool {
		r.m.Delete(k)
		return true
	})
	r.order = nil
	r.sealed = false
}

// Adopt registers every Configuration of prev, in order and with its
// original site, rebinding each to r's resolver and factories.
func (r *Registry) Adopt(prev *Registry) error {
	if prev == nil || prev == r {
		return nil
	}
	var errs []error
	for _, c := range prev.All() {
		site, _ := prev.Site(c)
		if err := r.RegisterWithSite(c, site); err != nil {
			errs = append(errs, err)
		}
	}
	return apis.NewAggregateError(errs...)
}

// Universe returns the universe used for string lookups.
func (r *Registry) Universe() apis.Universe { return r.uni }

// CallerSite returns "file:line" of the caller skip frames up.
func CallerSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
