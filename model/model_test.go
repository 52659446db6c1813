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

package model_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/config"
	"dirpx.dev/modelreg/descriptor"
	"dirpx.dev/modelreg/factory"
	"dirpx.dev/modelreg/kinds"
	"dirpx.dev/modelreg/model"
	"dirpx.dev/modelreg/resolver"
	"dirpx.dev/modelreg/universe"
)

var (
	itemID = apis.Identity{Namespace: "shop", Name: "StockItem"}
	item   = descriptor.MustNew(itemID, []*descriptor.Field{
		descriptor.ID(),
		descriptor.String("name"),
		descriptor.JSON("attributes"),
		descriptor.DateTime("created_at").AutoManaged(),
	})
)

// counting wraps a factory and counts Build calls.
type counting struct {
	apis.Factory
	n atomic.Int32
}

func (c *counting) Build(e apis.Descriptor, r apis.Resolution) (apis.Artifact, []*apis.ComponentWarning, error) {
	c.n.Add(1)
	return c.Factory.Build(e, r)
}

func countingFactories() (apis.FactorySet, map[apis.Surface]*counting) {
	set := apis.FactorySet{}
	counters := map[apis.Surface]*counting{}
	for s, f := range factory.Defaults(kinds.Default()) {
		c := &counting{Factory: f}
		set[s] = c
		counters[s] = c
	}
	return set, counters
}

func bind(c *model.Configuration) map[apis.Surface]*counting {
	facs, counters := countingFactories()
	c.Bind(resolver.NewDefault(config.DefaultConfig(), universe.MustNew(item)), facs, nil)
	return counters
}

func TestNew_NilEntity(t *testing.T) {
	_, err := model.New(nil)
	require.Error(t, err)
	assert.True(t, apis.IsConfigurationError(err))
}

func TestNew_InvalidOptions(t *testing.T) {
	cases := []struct {
		name string
		opt  model.Option
	}{
		{"empty field", model.WithFields("name", "")},
		{"empty group", model.WithFieldList(apis.FieldList{apis.Group()})},
		{"unknown surface", model.WithSurfaceFields("chart", "name")},
		{"nil custom", model.WithCustom(apis.SurfaceForm, nil)},
		{"wrong artifact type", model.WithCustom(apis.SurfaceForm, factory.NewTable(itemID))},
		{"bad website", model.WithMetadata(model.Metadata{Authority: &model.Authority{Website: "not a url"}})},
		{"bad email", model.WithMetadata(model.Metadata{MaintainerEmail: "nobody"})},
		{"bad doi", model.WithMetadata(model.Metadata{Citation: &model.Citation{DOI: "doi:abc"}})},
		{"empty exclude", model.WithExclude("")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.New(item, tc.opt)
			require.Error(t, err)
			assert.ErrorIs(t, err, apis.ErrConfiguration)
		})
	}

	_, err := model.New(item,
		model.WithSurfaceFields(apis.SurfaceForm, "name"),
		model.WithCustom(apis.SurfaceForm, factory.NewForm(itemID)))
	assert.True(t, apis.IsConfigurationError(err), "override and custom on one surface")
}

func TestNew_UnknownFieldIsLazy(t *testing.T) {
	c, err := model.New(item, model.WithFields("name", "nonexistent_field"))
	require.NoError(t, err, "existence is not checked at construction")

	_, err = c.Form()
	var fve *apis.FieldValidationError
	require.ErrorAs(t, err, &fve)
	assert.Equal(t, "nonexistent_field", fve.Field)
}

func TestAccessors_Idempotent(t *testing.T) {
	c := model.MustNew(item)
	counters := bind(c)

	f1, err := c.Form()
	require.NoError(t, err)
	f2, err := c.Form()
	require.NoError(t, err)
	assert.Same(t, f1, f2)

	t1, _ := c.Table()
	t2, _ := c.Table()
	assert.Same(t, t1, t2)
	s1, _ := c.Serializer()
	s2, _ := c.Serializer()
	assert.Same(t, s1, s2)

	assert.EqualValues(t, 1, counters[apis.SurfaceForm].n.Load())
	assert.EqualValues(t, 1, counters[apis.SurfaceTable].n.Load())
	assert.EqualValues(t, 0, counters[apis.SurfaceFilter].n.Load())
}

func TestAccessors_CustomBypassesFactory(t *testing.T) {
	custom := factory.NewForm(itemID, factory.FormField{Name: "hand-made"})
	c := model.MustNew(item,
		model.WithFields("does_not_exist"),
		model.WithCustom(apis.SurfaceForm, custom))
	counters := bind(c)

	for i := 0; i < 3; i++ {
		got, err := c.Form()
		require.NoError(t, err)
		assert.Same(t, custom, got)
	}
	assert.True(t, c.HasCustom(apis.SurfaceForm))
	assert.False(t, c.HasCustom(apis.SurfaceTable))
	assert.Zero(t, counters[apis.SurfaceForm].n.Load())

	_, err := c.Table()
	assert.True(t, apis.IsFieldValidationError(err), "other surfaces still resolve")
}

func TestAccessors_ConcurrentFirstAccessBuildsOnce(t *testing.T) {
	c := model.MustNew(item, model.WithFields("name", "created_at"))
	counters := bind(c)

	var g errgroup.Group
	results := make([]*factory.Filter, 64)
	for i := range results {
		g.Go(func() error {
			f, err := c.Filter()
			results[i] = f
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.EqualValues(t, 1, counters[apis.SurfaceFilter].n.Load())
}

func TestClearCache(t *testing.T) {
	c := model.MustNew(item)
	counters := bind(c)

	a, _ := c.Resource()
	c.ClearCache()
	b, _ := c.Resource()
	assert.NotSame(t, a, b)
	assert.Equal(t, a.Header(), b.Header())
	assert.EqualValues(t, 2, counters[apis.SurfaceResource].n.Load())
}

func TestErrorsAreCached(t *testing.T) {
	c := model.MustNew(item, model.WithFields("nmae"))
	counters := bind(c)
	_, err1 := c.AdminView()
	_, err2 := c.AdminView()
	require.Error(t, err1)
	assert.Same(t, err1, err2)
	assert.Zero(t, counters[apis.SurfaceAdmin].n.Load())

	var fve *apis.FieldValidationError
	require.ErrorAs(t, err1, &fve)
	assert.Equal(t, "name", fve.Suggestion)
}

func TestOverridePrecedence(t *testing.T) {
	c := model.MustNew(item, model.WithSurfaceFields(apis.SurfaceTable, "name", "created_at"))
	bind(c)

	tbl, err := c.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Created At"}, tbl.Headers())

	form, err := c.Form()
	require.NoError(t, err)
	require.Len(t, form.Fields, 2)
	assert.Equal(t, "name", form.Fields[0].Name)
	assert.Equal(t, "attributes", form.Fields[1].Name)

	assert.True(t, c.HasOverride(apis.SurfaceTable))
	assert.False(t, c.HasOverride(apis.SurfaceForm))
}

func TestWarnings(t *testing.T) {
	c := model.MustNew(item)
	bind(c)
	assert.Empty(t, c.Warnings())

	tbl, err := c.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"Name"}, tbl.Headers())

	warns := c.Warnings()
	require.Len(t, warns, 1)
	assert.Equal(t, "attributes", warns[0].Field)
	assert.Equal(t, apis.SurfaceTable, warns[0].Surface)
}

func TestUnboundUsesDefaults(t *testing.T) {
	c := model.MustNew(item, model.WithExclude("attributes"))
	res, err := c.Fields(apis.SurfaceSerializer)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, res.Names())
	assert.Equal(t, apis.TierDefault, res.Tier)

	ser, err := c.Serializer()
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, ser.Names())
}

func TestValidate(t *testing.T) {
	ok := model.MustNew(item, model.WithFields("name"))
	assert.NoError(t, ok.Validate())

	bad := model.MustNew(item,
		model.WithFields("nmae"),
		model.WithSurfaceFields(apis.SurfaceTable, "name"),
		model.WithCustom(apis.SurfaceAdmin, factory.NewAdmin(itemID)))
	err := bad.Validate()
	require.Error(t, err)
	var agg *apis.AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errors, 4, "form, filter, serializer and resource fail")
}

type gadget struct {
	ID   int64
	Name string
}

func (gadget) EntityName() string        { return "shop.Gadget" }
func (gadget) EntityDescription() string { return "a gadget" }

func TestDescription_DefaultsToEntity(t *testing.T) {
	d, err := descriptor.FromValue(gadget{})
	require.NoError(t, err)
	require.Equal(t, "a gadget", d.Description())

	assert.Equal(t, "a gadget", model.MustNew(d).Description())
	assert.Equal(t, "override", model.MustNew(d, model.WithDescription("override")).Description())
	assert.Empty(t, model.MustNew(item).Description())
}

func TestNamesAndMetadata(t *testing.T) {
	c := model.MustNew(item,
		model.WithDescription("things on shelves"),
		model.WithMetadata(model.Metadata{
			Keywords:        []string{"stock", "inventory", "stock", " "},
			RepositoryURL:   "https://example.com/shop",
			MaintainerEmail: "ops@example.com",
			Citation:        &model.Citation{Text: "Shop data", DOI: "10.5281/zenodo.12345"},
		}))
	assert.Equal(t, "stock item", c.VerboseName())
	assert.Equal(t, "stock items", c.VerboseNamePlural())
	assert.Equal(t, "Stock Item", c.DisplayName())
	assert.Equal(t, "stock-item", c.Slug())
	assert.Equal(t, "things on shelves", c.Description())
	assert.Equal(t, itemID, c.Identity())

	md := c.Metadata()
	require.NotNil(t, md)
	assert.Equal(t, []string{"inventory", "stock"}, md.Keywords)
	md.Citation.DOI = "mutated"
	assert.Equal(t, "10.5281/zenodo.12345", c.Metadata().Citation.DOI)

	named := model.MustNew(item, model.WithDisplayName("Inventory"))
	assert.Equal(t, "Inventory", named.DisplayName())
	assert.Nil(t, named.Metadata())
}
