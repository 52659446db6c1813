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

package modelreg

import (
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/builder"
	"dirpx.dev/modelreg/config"
	"dirpx.dev/modelreg/model"
	"dirpx.dev/modelreg/registry"
	"dirpx.dev/modelreg/universe"
)

// init publishes the default snapshot: default config, an empty universe
// and the default builder.
func init() {
	cfg := config.DefaultConfig()
	s := &state{cfg: cfg, uni: universe.MustNew(), bld: builder.New()}
	s.res = s.bld.BuildResolver(cfg, s.uni, nil, nil)
	s.facs = s.bld.BuildFactories(cfg, nil, nil)
	s.reg = registry.New(cfg, s.uni, s.res, s.facs)
	st.Store(s)
}

var (
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("modelreg: builder returned nil resolver")
	// ErrNilFactories is returned when a builder returns no factories.
	ErrNilFactories = errors.New("modelreg: builder returned no factories")
)

// Register records c in the global registry. The caller's file:line is kept
// as the registration site for duplicate reports.
func Register(c *model.Configuration) error {
	return register(c, registry.CallerSite(2))
}

// MustRegister is like Register but panics on error. It returns c so it can
// be used in package-level declarations.
func MustRegister(c *model.Configuration) *model.Configuration {
	if err := register(c, registry.CallerSite(2)); err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the Configuration registered for ref.
// See registry.Registry.Lookup for the accepted reference forms.
func Lookup(ref any) (*model.Configuration, error) {
	return st.Load().reg.Lookup(ref)
}

// IsRegistered reports whether ref has a Configuration. It never fails.
func IsRegistered(ref any) bool {
	return st.Load().reg.IsRegistered(ref)
}

// All returns every registered Configuration in registration order.
func All() []*model.Configuration {
	return st.Load().reg.All()
}

// Summarize returns a read-only summary of the global registry.
func Summarize() registry.Summary {
	return st.Load().reg.Summarize()
}

// Check validates the field lists of every registered Configuration.
func Check() error {
	return st.Load().reg.Check()
}

// Seal freezes the global registry. Rebuilt registries stay sealed.
func Seal() {
	buildMu.RLock()
	defer buildMu.RUnlock()
	st.Load().reg.Seal()
}

// register holds the read side of buildMu so a rebuild cannot adopt the
// registry between the registration and the publish of its successor.
func register(c *model.Configuration, site string) error {
	buildMu.RLock()
	defer buildMu.RUnlock()
	return st.Load().reg.RegisterWithSite(c, site)
}

// AddDescriptors adds entity descriptors to the global universe.
func AddDescriptors(descs ...apis.Descriptor) error {
	u, ok := st.Load().uni.(interface{ Add(apis.Descriptor) error })
	if !ok {
		return apis.NewConfigurationError(apis.Identity{}, "AddDescriptors", "universe is read-only")
	}
	var errs []error
	for _, d := range descs {
		if err := u.Add(d); err != nil {
			errs = append(errs, err)
		}
	}
	return apis.NewAggregateError(errs...)
}

// SetAll replaces every global component in one step.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced. A non-nil reg or res is pinned;
// nil ones are rebuilt and unpinned.
func SetAll(cfg *apis.Config, ext any, uni apis.Universe, reg *registry.Registry, res apis.Resolver, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	if cfg != nil {
		next.cfg = *cfg
	}
	if uni != nil {
		next.uni = uni
	}
	if bld != nil {
		next.bld = bld
	}
	next.ext = ext
	next.reg, next.preg = reg, reg != nil
	next.res, next.pres = res, res != nil
	if next.reg != nil && uni == nil && next.reg.Universe() != nil {
		next.uni = next.reg.Universe()
	}
	publish(old, &next)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration and rebuilds every unpinned layer.
func SetConfig(cfg apis.Config) {
	update(func(s *state) { s.cfg = cfg })
}

// Universe returns the global universe.
func Universe() apis.Universe {
	return st.Load().uni
}

// SetUniverse replaces the global universe and rebuilds every unpinned layer.
func SetUniverse(u apis.Universe) {
	if u == nil {
		return
	}
	update(func(s *state) { s.uni = u })
}

// Registry returns the global registry.
func Registry() *registry.Registry {
	return st.Load().reg
}

// SetRegistry installs reg as the global registry and pins it. The universe
// of reg, if any, becomes the global universe.
func SetRegistry(reg *registry.Registry) {
	if reg == nil {
		return
	}
	update(func(s *state) {
		s.reg, s.preg = reg, true
		if u := reg.Universe(); u != nil {
			s.uni = u
		}
	})
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver installs res as the global resolver and pins it.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	update(func(s *state) { s.res, s.pres = res, true })
}

// Factories returns the global factory set.
func Factories() apis.FactorySet {
	return st.Load().facs
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder and rebuilds every unpinned layer.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	update(func(s *state) { s.bld = b })
}

// SetExt replaces the extension value and rebuilds every unpinned layer.
func SetExt[T any](ext T) {
	update(func(s *state) { s.ext = ext })
}

// ExtAs returns the global extension value as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned reports whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops the global registry from being rebuilt.
func PinRegistry() {
	update(func(s *state) { s.preg = true })
}

// UnpinRegistry lets the global registry be rebuilt again.
func UnpinRegistry() {
	update(func(s *state) { s.preg = false })
}

// IsResolverPinned reports whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver stops the global resolver from being rebuilt.
func PinResolver() {
	update(func(s *state) { s.pres = true })
}

// UnpinResolver lets the global resolver be rebuilt again.
func UnpinResolver() {
	update(func(s *state) { s.pres = false })
}

// update copies the current snapshot, applies fn and publishes the result.
func update(fn func(*state)) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	fn(&next)
	publish(old, &next)
}

// publish rebuilds the unpinned layers of next and stores it.
// Must be called with buildMu held.
func publish(old, next *state) {
	log := config.Logger(next.cfg)

	if !next.pres || next.res == nil {
		next.res = next.bld.BuildResolver(next.cfg, next.uni, old.res, next.ext)
	}
	if next.res == nil {
		panic(ErrNilResolver)
	}
	next.facs = next.bld.BuildFactories(next.cfg, old.facs, next.ext)
	if len(next.facs) == 0 {
		panic(ErrNilFactories)
	}

	if !next.preg || next.reg == nil {
		reg := registry.New(next.cfg, next.uni, next.res, next.facs)
		if err := reg.Adopt(old.reg); err != nil {
			log.Warn("modelreg: registrations dropped on rebuild", "error", err)
		}
		if old.reg != nil && old.reg.Sealed() {
			reg.Seal()
		}
		next.reg = reg
	}

	st.Store(next)
	log.Debug("modelreg: state published",
		"registrations", next.reg.Count(),
		"registry_pinned", next.preg,
		"resolver_pinned", next.pres)
}

// buildMu serializes writers so partially built snapshots are never published.
// Registrations take the read side.
var buildMu sync.RWMutex

// st is the global snapshot.
var st atomic.Pointer[state]

// state is an immutable snapshot published via st.Store. Writers copy it,
// change the copy and swap it in.
type state struct {
	cfg  apis.Config
	ext  any
	uni  apis.Universe
	reg  *registry.Registry
	res  apis.Resolver
	facs apis.FactorySet
	bld  apis.Builder
	// preg indicates whether reg is pinned.
	preg bool
	// pres indicates whether res is pinned.
	pres bool
}
