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

package model

import (
	"fmt"
	"sync"
	"sync/atomic"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/factory"
)

// cell holds the outcome of building one surface. Errors are cached too:
// resolution is deterministic, so retrying cannot succeed.
type cell struct {
	once  sync.Once
	art   apis.Artifact
	warns []*apis.ComponentWarning
	err   error
	// done is set once the fields above are final.
	done atomic.Bool
}

// cellSet has one cell per surface and is never mutated after creation,
// so lookups need no lock.
type cellSet struct {
	m map[apis.Surface]*cell
}

func newCellSet() *cellSet {
	set := &cellSet{m: make(map[apis.Surface]*cell, len(apis.Surfaces()))}
	for _, s := range apis.Surfaces() {
		set.m[s] = &cell{}
	}
	return set
}

// ClearCache forgets every built artifact; the next access rebuilds.
func (c *Configuration) ClearCache() {
	c.cells.Store(newCellSet())
}

// Artifact returns the artifact of s: the custom one when set, otherwise
// the cached or freshly built one.
func (c *Configuration) Artifact(s apis.Surface) (apis.Artifact, error) {
	if art, ok := c.custom[s]; ok {
		return art, nil
	}
	cl, ok := c.cells.Load().m[s]
	if !ok {
		return nil, apis.NewConfigurationError(c.identity(), "surface", fmt.Sprintf("unknown surface %q", s))
	}
	cl.once.Do(func() {
		c.build(s, cl)
		cl.done.Store(true)
	})
	return cl.art, cl.err
}

func (c *Configuration) build(s apis.Surface, cl *cell) {
	b := c.current()
	id := c.identity().String()
	defer func() {
		if r := recover(); r != nil {
			cl.art, cl.warns = nil, nil
			cl.err = &apis.ComponentGenerationError{Surface: s, Entity: c.identity(), Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	res, err := b.res.Resolve(c, s)
	if err != nil {
		cl.err = err
		b.log.Debug("modelreg: resolution failed", "entity", id, "surface", string(s), "error", err)
		return
	}
	cl.art, cl.warns, cl.err = factory.Generate(b.facs[s], c.entity, res)
	if cl.err != nil {
		b.log.Warn("modelreg: generation failed", "entity", id, "surface", string(s), "error", cl.err)
		return
	}
	for _, w := range cl.warns {
		b.log.Warn("modelreg: field omitted", "entity", id, "surface", string(s), "field", w.Field, "kind", string(w.Kind))
	}
	b.log.Debug("modelreg: artifact built", "entity", id, "surface", string(s),
		"tier", res.Tier.String(), "fields", len(res.Fields))
}

// Warnings returns the warnings of every surface built so far, in surface order.
func (c *Configuration) Warnings() []*apis.ComponentWarning {
	set := c.cells.Load()
	var out []*apis.ComponentWarning
	for _, s := range apis.Surfaces() {
		if cl := set.m[s]; cl.done.Load() {
			out = append(out, cl.warns...)
		}
	}
	return out
}

// Form returns the form artifact.
func (c *Configuration) Form() (*factory.Form, error) {
	return artifactAs[*factory.Form](c, apis.SurfaceForm)
}

// Table returns the table artifact.
func (c *Configuration) Table() (*factory.Table, error) {
	return artifactAs[*factory.Table](c, apis.SurfaceTable)
}

// Filter returns the filter artifact.
func (c *Configuration) Filter() (*factory.Filter, error) {
	return artifactAs[*factory.Filter](c, apis.SurfaceFilter)
}

// Serializer returns the serializer artifact.
func (c *Configuration) Serializer() (*factory.Serializer, error) {
	return artifactAs[*factory.Serializer](c, apis.SurfaceSerializer)
}

// Resource returns the import/export artifact.
func (c *Configuration) Resource() (*factory.Resource, error) {
	return artifactAs[*factory.Resource](c, apis.SurfaceResource)
}

// AdminView returns the administrative list-view artifact.
func (c *Configuration) AdminView() (*factory.Admin, error) {
	return artifactAs[*factory.Admin](c, apis.SurfaceAdmin)
}

func artifactAs[T apis.Artifact](c *Configuration, s apis.Surface) (T, error) {
	var zero T
	art, err := c.Artifact(s)
	if err != nil {
		return zero, err
	}
	out, ok := art.(T)
	if !ok {
		return zero, &apis.ComponentGenerationError{
			Surface: s,
			Entity:  c.identity(),
			Cause:   fmt.Errorf("factory produced %T, want %T", art, zero),
		}
	}
	return out, nil
}
