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

package loader_test

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/builder"
	"dirpx.dev/modelreg/config"
	"dirpx.dev/modelreg/loader"
	"dirpx.dev/modelreg/registry"
)

const blogYAML = `entities:
  - id: auth.User
    fields:
      - {name: id, kind: int, pk: true, readonly: true}
      - {name: name, kind: string}
      - {name: email, kind: email}
  - id: blog.Post
    verbose_name: blog post
    fields:
      - {name: id, kind: int, pk: true, readonly: true}
      - {name: title, kind: string}
      - {name: summary, kind: text, null: true}
      - {name: body, kind: text}
      - {name: status, kind: enum, choices: [draft, published]}
      - {name: author, kind: foreign-key, target: auth.User}
      - {name: created_at, kind: datetime, auto: true}
models:
  - entity: blog.post
    fields: [title, [summary, body], status]
    surfaces:
      table: [title, author__name]
      admin: [title, status]
    metadata:
      keywords: [blog]
  - entity: auth.User
    exclude: [email]
`

func newRegistry(b *loader.Bundle) *registry.Registry {
	cfg := config.DefaultConfig()
	bld := builder.New()
	return registry.New(cfg, b.Universe,
		bld.BuildResolver(cfg, b.Universe, nil, nil),
		bld.BuildFactories(cfg, nil, nil))
}

func TestLoad_EntitiesAndModels(t *testing.T) {
	b, err := loader.Load(strings.NewReader(blogYAML), "blog.yaml")
	require.NoError(t, err)

	assert.Equal(t, 2, b.Universe.Count())
	require.Len(t, b.Entries, 2)

	post := b.Entries[0]
	assert.Equal(t, apis.Identity{Namespace: "blog", Name: "Post"}, post.Config.Identity())
	assert.Equal(t, "blog.yaml:18", post.Site)
	assert.Equal(t, "blog post", post.Config.VerboseName())
	assert.True(t, post.Config.HasOverride(apis.SurfaceTable))
	assert.True(t, post.Config.HasOverride(apis.SurfaceAdmin))
	assert.Equal(t, []string{"blog"}, post.Config.Metadata().Keywords)

	shared := post.Config.SharedFields()
	require.Len(t, shared, 3)
	assert.True(t, shared[1].IsGroup())
	assert.Equal(t, []string{"summary", "body"}, shared[1].Names())

	assert.True(t, b.Entries[1].Config.IsExcluded("email"))
}

func TestLoad_RegisterAndGenerate(t *testing.T) {
	b, err := loader.Load(strings.NewReader(blogYAML), "blog.yaml")
	require.NoError(t, err)

	reg := newRegistry(b)
	require.NoError(t, b.Register(reg))
	require.NoError(t, reg.Check())

	c, err := reg.Lookup("blog.Post")
	require.NoError(t, err)
	site, ok := reg.Site(c)
	require.True(t, ok)
	assert.Equal(t, "blog.yaml:18", site)

	form, err := c.Form()
	require.NoError(t, err)
	require.Len(t, form.Groups, 1)
	assert.Equal(t, []string{"summary", "body"}, form.Groups[0])

	tbl, err := c.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"Title", "Author Name"}, tbl.Headers())

	user, err := reg.Lookup("auth.user")
	require.NoError(t, err)
	res, err := user.Fields(apis.SurfaceForm)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, res.Names())

	err = b.Register(reg)
	assert.True(t, apis.IsDuplicateRegistration(err))
}

func TestLoad_NullSurfaceFallsBackToShared(t *testing.T) {
	doc := `entities:
  - id: auth.User
    fields:
      - {name: id, kind: int, pk: true, readonly: true}
      - {name: name, kind: string}
      - {name: email, kind: email}
models:
  - entity: auth.User
    fields: [name, email]
    surfaces:
      table: ~
      filter: []
`
	b, err := loader.Load(strings.NewReader(doc), "users.yaml")
	require.NoError(t, err)
	require.Len(t, b.Entries, 1)

	c := b.Entries[0].Config
	assert.False(t, c.HasOverride(apis.SurfaceTable))
	assert.True(t, c.HasOverride(apis.SurfaceFilter))

	reg := newRegistry(b)
	require.NoError(t, b.Register(reg))

	res, err := c.Fields(apis.SurfaceTable)
	require.NoError(t, err)
	assert.Equal(t, apis.TierShared, res.Tier)
	assert.Equal(t, []string{"name", "email"}, res.Names())
}

func TestLoadFS_ModelsAcrossFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"models/10-entities.yaml": {Data: []byte(`entities:
  - id: shop.Product
    fields:
      - {name: sku, kind: string}
      - {name: price, kind: decimal}
`)},
		"models/20-models.yaml": {Data: []byte(`models:
  - entity: shop.Product
    fields: [sku, price]
---
models:
  - entity: shop.product
    surfaces:
      filter: [sku]
`)},
		"models/readme.txt": {Data: []byte("ignored")},
	}

	b, err := loader.LoadFS(fsys, "models/*.yaml")
	require.NoError(t, err)
	require.Len(t, b.Entries, 2)
	assert.Equal(t, "models/20-models.yaml:2", b.Entries[0].Site)
	assert.Equal(t, "models/20-models.yaml:6", b.Entries[1].Site)

	reg := newRegistry(b)
	err = b.Register(reg)
	var dup *apis.DuplicateRegistrationError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "models/20-models.yaml:2", dup.OriginalSite)
	assert.Equal(t, "models/20-models.yaml:6", dup.AttemptedSite)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "bad identifier",
			doc:  "entities:\n  - id: User\n    fields: []\n",
			want: "missing separator",
		},
		{
			name: "unknown entity",
			doc:  "models:\n  - entity: blog.Post\n",
			want: "blog.Post",
		},
		{
			name: "missing kind",
			doc:  "entities:\n  - id: a.B\n    fields:\n      - {name: x}\n",
			want: "has no kind",
		},
		{
			name: "unknown surface",
			doc:  "entities:\n  - id: a.B\n    fields:\n      - {name: x, kind: string}\nmodels:\n  - entity: a.B\n    surfaces:\n      chart: [x]\n",
			want: "unknown surface",
		},
		{
			name: "surface aliases collide",
			doc:  "entities:\n  - id: a.B\n    fields:\n      - {name: x, kind: string}\nmodels:\n  - entity: a.B\n    surfaces:\n      admin: [x]\n      admin-list: [x]\n",
			want: `"admin" and "admin-list" both name surface`,
		},
		{
			name: "field list mapping",
			doc:  "models:\n  - entity: a.B\n    fields: {x: 1}\n",
			want: "must be a sequence",
		},
		{
			name: "empty group",
			doc:  "entities:\n  - id: a.B\n    fields:\n      - {name: x, kind: string}\nmodels:\n  - entity: a.B\n    fields: [x, []]\n",
			want: "empty field group",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(strings.NewReader(tt.doc), "bad.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ErrorsCarrySite(t *testing.T) {
	doc := "entities:\n  - id: a.B\n    fields:\n      - {name: x, kind: string}\nmodels:\n  - entity: a.B\n  - entity: a.Missing\n"
	_, err := loader.Load(strings.NewReader(doc), "m.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "m.yaml:7")
	assert.True(t, errors.Is(err, apis.ErrNotFound))
}
