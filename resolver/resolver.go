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

// Package resolver turns a Configuration's declarative field lists into a
// validated, per-surface Resolution by running the precedence tiers in order.
package resolver

import (
	"fmt"
	"strings"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/config"
	"dirpx.dev/modelreg/strategy"
)

// New constructs an apis.Resolver that tries the given strategies in order.
// Nil strategies are ignored. u is used to follow relation paths and may be
// nil, in which case only direct field names resolve. The returned resolver
// is safe for concurrent use provided the strategies are.
func New(cfg apis.Config, u apis.Universe, strategies ...apis.Strategy) apis.Resolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{cfg: cfg, u: u, strats: out}
}

// NewDefault returns the standard four-tier resolver:
// custom artifact, surface override, shared fields, smart defaults.
func NewDefault(cfg apis.Config, u apis.Universe) apis.Resolver {
	return New(cfg, u,
		strategy.NewCustomStrategy(),
		strategy.NewOverrideStrategy(),
		strategy.NewSharedStrategy(),
		strategy.NewDefaultsStrategy(),
	)
}

// chain is an immutable, order-preserving resolver over a set of strategies.
type chain struct {
	cfg    apis.Config
	u      apis.Universe
	strats []apis.Strategy
}

// Resolve runs strategies in order until one handles s, then validates the
// winning list against the entity. Custom tiers produce no fields.
func (r chain) Resolve(src apis.Source, s apis.Surface) (apis.Resolution, error) {
	if src == nil || src.Entity() == nil {
		return apis.Resolution{}, apis.NewConfigurationError(apis.Identity{}, "entity", "no entity descriptor")
	}
	entity := src.Entity()
	if !s.Valid() {
		return apis.Resolution{}, apis.NewConfigurationError(entity.Identity(), "surface", fmt.Sprintf("unknown surface %q", s))
	}

	for _, st := range r.strats {
		list, ok := st.TryResolve(src, s, r.cfg)
		if !ok {
			continue
		}
		res := apis.Resolution{Surface: s, Tier: st.Tier()}
		if st.Tier() == apis.TierCustom {
			return res, nil
		}
		fields, groups, err := r.validate(entity, list)
		if err != nil {
			return apis.Resolution{}, err
		}
		res.Fields, res.Groups = fields, groups
		config.Logger(r.cfg).Debug("modelreg: resolved fields",
			"entity", entity.Identity().String(),
			"surface", string(s),
			"tier", res.Tier.String(),
			"fields", res.Names())
		return res, nil
	}
	return apis.Resolution{}, apis.NewConfigurationError(entity.Identity(), "surface",
		fmt.Sprintf("no resolution tier handled %q", s))
}

// validate checks every entry of list against entity and records group indices.
func (r chain) validate(entity apis.Descriptor, list apis.FieldList) ([]apis.ResolvedField, [][]string, error) {
	var (
		fields = make([]apis.ResolvedField, 0, len(list))
		groups [][]string
		seen   = make(map[string]struct{}, len(list))
	)
	for _, entry := range list {
		group := -1
		if entry.IsGroup() {
			if len(entry.Names()) == 0 {
				return nil, nil, &apis.FieldValidationError{Entity: entity.Identity(), Reason: "empty field group"}
			}
			group = len(groups)
			groups = append(groups, entry.Names())
		}
		for _, path := range entry.Names() {
			if _, dup := seen[path]; dup {
				return nil, nil, &apis.FieldValidationError{Field: path, Entity: entity.Identity(), Reason: "duplicate field"}
			}
			seen[path] = struct{}{}
			info, err := r.resolvePath(entity, path)
			if err != nil {
				return nil, nil, err
			}
			fields = append(fields, apis.ResolvedField{Path: path, Info: info, Group: group})
		}
	}
	return fields, groups, nil
}

// resolvePath resolves a field name or a relation path to its terminal field.
// A missing first segment is a validation error; any later failure is a
// resolution error.
func (r chain) resolvePath(entity apis.Descriptor, path string) (apis.FieldInfo, error) {
	root := entity.Identity()
	if strings.TrimSpace(path) == "" {
		return apis.FieldInfo{}, &apis.FieldValidationError{Field: path, Entity: root, Reason: "empty field name"}
	}
	segments := strings.Split(path, r.cfg.RelationSeparator)
	if r.cfg.RelationSeparator == "" {
		segments = []string{path}
	}
	for _, seg := range segments {
		if seg == "" {
			return apis.FieldInfo{}, &apis.FieldValidationError{Field: path, Entity: root, Reason: "empty segment in field path"}
		}
	}

	current := entity
	for i, seg := range segments {
		info, ok := current.Field(seg)
		if !ok {
			suggestion := Suggest(r.cfg, seg, fieldNames(current))
			if i == 0 {
				return apis.FieldInfo{}, &apis.FieldValidationError{Field: path, Entity: root, Suggestion: suggestion}
			}
			return apis.FieldInfo{}, &apis.FieldResolutionError{
				Path: path, Segment: seg, Entity: root, Suggestion: suggestion,
				Reason: fmt.Sprintf("%s has no field %q", current.Identity(), seg),
			}
		}
		if i == len(segments)-1 {
			return info, nil
		}

		fail := func(reason string) (apis.FieldInfo, error) {
			return apis.FieldInfo{}, &apis.FieldResolutionError{Path: path, Segment: seg, Entity: root, Reason: reason}
		}
		switch {
		case !info.IsRelation():
			return fail(fmt.Sprintf("%s.%s is not a relation", current.Identity(), seg))
		case i+1 > r.cfg.MaxRelationDepth && r.cfg.MaxRelationDepth > 0:
			return fail(fmt.Sprintf("path exceeds %d relation hops", r.cfg.MaxRelationDepth))
		case r.u == nil:
			return fail("no universe to follow relations")
		}
		next, ok := r.u.Get(*info.RelationTarget)
		if !ok {
			return fail(fmt.Sprintf("relation target %s is unknown", info.RelationTarget))
		}
		current = next
	}
	// Unreachable: the loop returns on the last segment.
	return apis.FieldInfo{}, nil
}

func fieldNames(d apis.Descriptor) []string {
	fs := d.Fields()
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Name
	}
	return out
}
