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

package builder_test

import (
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/builder"
	"dirpx.dev/modelreg/config"
	"dirpx.dev/modelreg/descriptor"
	"dirpx.dev/modelreg/factory"
	"dirpx.dev/modelreg/kinds"
	"dirpx.dev/modelreg/model"
	"dirpx.dev/modelreg/strategy"
	"dirpx.dev/modelreg/universe"
)

var (
	noteID = apis.Identity{Namespace: "crm", Name: "Note"}
	note   = descriptor.MustNew(noteID, []*descriptor.Field{
		descriptor.ID(),
		descriptor.String("subject"),
		descriptor.NewField("amount", "money"),
	})
)

// TestBuildResolver_DefaultTiers verifies the override tier beats shared
// fields and the smart defaults apply when nothing is configured.
func TestBuildResolver_DefaultTiers(t *testing.T) {
	res := builder.New().BuildResolver(config.DefaultConfig(), universe.MustNew(note), nil, nil)
	if res == nil {
		t.Fatal("BuildResolver returned nil")
	}

	c := model.MustNew(note,
		model.WithFields("subject", "amount"),
		model.WithSurfaceFields(apis.SurfaceTable, "subject"))

	got, err := res.Resolve(c, apis.SurfaceTable)
	if err != nil || got.Tier != apis.TierOverride {
		t.Fatalf("table: got (%v,%v), want override tier", got.Tier, err)
	}
	got, err = res.Resolve(c, apis.SurfaceForm)
	if err != nil || got.Tier != apis.TierShared {
		t.Fatalf("form: got (%v,%v), want shared tier", got.Tier, err)
	}
	got, err = res.Resolve(model.MustNew(note), apis.SurfaceForm)
	if err != nil || got.Tier != apis.TierDefault {
		t.Fatalf("defaults: got (%v,%v), want default tier", got.Tier, err)
	}
}

// TestBuildResolver_CustomStrategies asserts strategies in ext replace the
// default chain.
func TestBuildResolver_CustomStrategies(t *testing.T) {
	ext := []apis.Strategy{strategy.NewDefaultsStrategy()}
	res := builder.New().BuildResolver(config.DefaultConfig(), nil, nil, ext)

	c := model.MustNew(note, model.WithSurfaceFields(apis.SurfaceTable, "subject"))
	got, err := res.Resolve(c, apis.SurfaceTable)
	if err != nil {
		t.Fatal(err)
	}
	if got.Tier != apis.TierDefault {
		t.Fatalf("override tier should be skipped: got %v", got.Tier)
	}
}

// TestBuildFactories_KindTableFromExt verifies a custom kind reaches every factory.
func TestBuildFactories_KindTableFromExt(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	res := b.BuildResolver(cfg, nil, nil, nil)

	def := b.BuildFactories(cfg, nil, nil)
	c := model.MustNew(note)
	c.Bind(res, def, nil)
	if _, err := c.Form(); !apis.IsComponentGenerationError(err) {
		t.Fatalf("unknown kind should fail generation, got %v", err)
	}

	tbl := kinds.Default()
	if err := tbl.Register("money", kinds.Behavior{Input: kinds.Input{Widget: "money"}}); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []any{tbl, builder.Ext{Kinds: tbl}, &builder.Ext{Kinds: tbl}} {
		set := b.BuildFactories(cfg, nil, ext)
		if len(set) != len(apis.Surfaces()) {
			t.Fatalf("want one factory per surface, got %d", len(set))
		}
		c := model.MustNew(note)
		c.Bind(res, set, nil)
		form, err := c.Form()
		if err != nil {
			t.Fatalf("ext %T: %v", ext, err)
		}
		if f, _ := form.Field("amount"); f.Widget != "money" {
			t.Fatalf("ext %T: widget %q, want money", ext, f.Widget)
		}
	}
}

type extraFactory struct{ apis.Factory }

func (extraFactory) Surface() apis.Surface { return "chart" }

// TestBuildFactories_KeepsUnknownSurfacesFromPrev ensures previously installed
// factories for extra surfaces survive a rebuild.
func TestBuildFactories_KeepsUnknownSurfacesFromPrev(t *testing.T) {
	prev := factory.Defaults(nil)
	prev["chart"] = extraFactory{}
	set := builder.New().BuildFactories(config.DefaultConfig(), prev, nil)
	if _, ok := set["chart"]; !ok {
		t.Fatal("extra factory dropped")
	}
	if set[apis.SurfaceForm] == prev[apis.SurfaceForm] {
		t.Fatal("standard factories should be rebuilt")
	}
}

// TestBuildResolver_Concurrency_Smoke resolves from many goroutines.
func TestBuildResolver_Concurrency_Smoke(t *testing.T) {
	res := builder.New().BuildResolver(config.DefaultConfig(), universe.MustNew(note), nil, nil)
	c := model.MustNew(note, model.WithFields("subject"))

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				s := apis.Surfaces()[(i+id)%len(apis.Surfaces())]
				if _, err := res.Resolve(c, s); err != nil {
					t.Errorf("resolve %s: %v", s, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()
}

// Compile-time check: builder.New() must satisfy apis.Builder.
var _ apis.Builder = builder.New()
