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

package factory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/descriptor"
	"dirpx.dev/modelreg/factory"
	"dirpx.dev/modelreg/kinds"
)

var (
	authorID = apis.Identity{Namespace: "blog", Name: "Author"}
	postID   = apis.Identity{Namespace: "blog", Name: "Post"}
	post     = descriptor.MustNew(postID, []*descriptor.Field{
		descriptor.ID(),
		descriptor.String("title").Help("shown in listings"),
		descriptor.Text("body").Nullable(),
		descriptor.Enum("status", "draft", "published"),
		descriptor.UUID("token"),
		descriptor.JSON("meta"),
		descriptor.ForeignKey("author", authorID),
		descriptor.ManyToMany("tags", apis.Identity{Namespace: "blog", Name: "Tag"}),
		descriptor.DateTime("created_at").AutoManaged(),
		descriptor.NewField("price", "money"),
	})
)

// resolution builds a Resolution over post; a name containing "__" is
// treated as a path whose terminal field is a string "name".
func resolution(s apis.Surface, groups [][]string, names ...string) apis.Resolution {
	res := apis.Resolution{Surface: s, Tier: apis.TierShared, Groups: groups}
	for _, n := range names {
		info, ok := post.Field(n)
		if !ok {
			info = apis.FieldInfo{Name: "name", Kind: apis.KindString, Editable: true, VerboseName: "name"}
		}
		group := -1
		for gi, g := range groups {
			for _, m := range g {
				if m == n {
					group = gi
				}
			}
		}
		res.Fields = append(res.Fields, apis.ResolvedField{Path: n, Info: info, Group: group})
	}
	return res
}

func build(t *testing.T, s apis.Surface, res apis.Resolution) (apis.Artifact, []*apis.ComponentWarning) {
	t.Helper()
	f := factory.Defaults(nil)[s]
	require.NotNil(t, f)
	art, warns, err := factory.Generate(f, post, res)
	require.NoError(t, err)
	require.NotNil(t, art)
	assert.Equal(t, s, art.Surface())
	assert.Equal(t, postID, art.Entity())
	return art, warns
}

func TestDefaults_AllSurfaces(t *testing.T) {
	set := factory.Defaults(kinds.Default())
	for _, s := range apis.Surfaces() {
		f, ok := set[s]
		require.True(t, ok, s)
		assert.Equal(t, s, f.Surface())
	}
}

func TestForm(t *testing.T) {
	res := resolution(apis.SurfaceForm, [][]string{{"title", "body"}, {"status"}},
		"title", "body", "status", "id", "author__name")
	art, warns := build(t, apis.SurfaceForm, res)
	assert.Empty(t, warns)

	form := art.(*factory.Form)
	require.Len(t, form.Fields, 5)

	title, ok := form.Field("title")
	require.True(t, ok)
	assert.Equal(t, "text", title.Widget)
	assert.Equal(t, "title", title.Label)
	assert.Equal(t, "shown in listings", title.HelpText)
	assert.True(t, title.Required)
	assert.Equal(t, 0, title.Group)

	body, _ := form.Field("body")
	assert.False(t, body.Required)
	assert.Equal(t, "textarea", body.Widget)

	status, _ := form.Field("status")
	assert.Equal(t, []string{"draft", "published"}, status.Choices)
	assert.Equal(t, "select", status.Widget)

	id, _ := form.Field("id")
	assert.True(t, id.ReadOnly)
	assert.False(t, id.Required)

	related, _ := form.Field("author__name")
	assert.True(t, related.ReadOnly)
	assert.Equal(t, "author name", related.Label)
	assert.Equal(t, -1, related.Group)

	assert.Equal(t, [][]string{{"title", "body"}, {"status"}}, form.Groups)
}

func TestTable_OmitsUnrepresentableKinds(t *testing.T) {
	res := resolution(apis.SurfaceTable, nil, "title", "meta", "tags", "created_at", "token")
	art, warns := build(t, apis.SurfaceTable, res)
	tbl := art.(*factory.Table)

	assert.Equal(t, []string{"Title", "Created At", "Token"}, tbl.Headers())
	assert.Equal(t, kinds.AlignLeft, tbl.Columns[0].Align)
	assert.True(t, tbl.Columns[0].Sortable)

	require.Len(t, warns, 2)
	assert.Equal(t, "meta", warns[0].Field)
	assert.Equal(t, apis.KindJSON, warns[0].Kind)
	assert.Equal(t, "tags", warns[1].Field)
	assert.ErrorIs(t, warns[0], apis.ErrComponentWarning)
}

func TestFilter_Validate(t *testing.T) {
	res := resolution(apis.SurfaceFilter, nil, "token", "status", "created_at", "title")
	art, _ := build(t, apis.SurfaceFilter, res)
	flt := art.(*factory.Filter)

	assert.Equal(t, kinds.LookupExact, flt.Filters[0].Lookup)
	assert.Equal(t, kinds.LookupIn, flt.Filters[1].Lookup)
	assert.Equal(t, kinds.LookupRange, flt.Filters[2].Lookup)

	assert.NoError(t, flt.Validate("token", "6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	assert.Error(t, flt.Validate("token", "nope"))
	assert.NoError(t, flt.Validate("status", "draft"))
	assert.Error(t, flt.Validate("status", "archived"))
	assert.NoError(t, flt.Validate("created_at", "2025-01-01T00:00:00Z..2025-02-01T00:00:00Z"))
	assert.NoError(t, flt.Validate("title", "anything"))

	err := flt.Validate("missing", "x")
	assert.True(t, apis.IsFieldValidationError(err))
}

func TestSerializer_SDLNamesStayDistinct(t *testing.T) {
	ser := factory.NewSerializer(postID, "Post",
		factory.WireField{Name: "author_name", Scalar: "String"},
		factory.WireField{Name: "author__name", Scalar: "String", Nullable: true},
		factory.WireField{Name: "authorName", Scalar: "String"},
	)
	sdl := ser.SDL()
	assert.Contains(t, sdl, "authorName: String!")
	assert.Contains(t, sdl, "author__name: String\n")
	assert.Contains(t, sdl, "authorName_2: String!")
}

func TestSerializer(t *testing.T) {
	res := resolution(apis.SurfaceSerializer, nil, "id", "title", "body", "created_at", "tags", "author__name")
	art, warns := build(t, apis.SurfaceSerializer, res)
	assert.Empty(t, warns)
	ser := art.(*factory.Serializer)

	assert.Equal(t, "Post", ser.TypeName)
	assert.Equal(t, []string{"id", "title", "body", "created_at", "tags", "author__name"}, ser.Names())

	sdl := ser.SDL()
	assert.Contains(t, sdl, "scalar DateTime")
	assert.Contains(t, sdl, "type Post {")
	assert.Contains(t, sdl, "id: Int!")
	assert.Contains(t, sdl, "body: String\n")
	assert.Contains(t, sdl, "createdAt: DateTime!")
	assert.Contains(t, sdl, "tags: [ID!]!")
	assert.Contains(t, sdl, "authorName: String")
	assert.NotContains(t, sdl, "scalar String")

	record := map[string]any{"id": 7, "title": "hello", "secret": "x"}
	proj := ser.Project(record)
	assert.NotContains(t, proj, "secret")
	assert.Contains(t, proj, "body")
	assert.Nil(t, proj["body"])

	data, err := ser.Marshal(record)
	require.NoError(t, err)
	back, err := ser.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, "hello", back["title"])
	assert.EqualValues(t, 7, back["id"])
	assert.NotContains(t, back, "secret")

	_, err = ser.Unmarshal([]byte{0xc1})
	assert.Error(t, err)
}

func TestResource(t *testing.T) {
	res := resolution(apis.SurfaceResource, nil, "id", "title", "meta", "created_at")
	art, warns := build(t, apis.SurfaceResource, res)
	assert.Empty(t, warns)
	r := art.(*factory.Resource)

	assert.Equal(t, []string{"id", "title", "meta", "created_at"}, r.Header())
	assert.False(t, r.Columns[0].Importable)
	assert.True(t, r.Columns[1].Importable)
	assert.Equal(t, "json", r.Columns[2].Format)
	assert.Equal(t, []string{"1", "hi", "", ""}, r.Row(map[string]any{"id": 1, "title": "hi", "meta": nil}))
}

func TestAdmin(t *testing.T) {
	res := resolution(apis.SurfaceAdmin, nil, "title", "status", "meta", "author", "created_at")
	art, warns := build(t, apis.SurfaceAdmin, res)
	adm := art.(*factory.Admin)

	require.Len(t, warns, 1)
	assert.Equal(t, "meta", warns[0].Field)
	assert.Equal(t, []string{"title", "status", "author", "created_at"}, adm.ListDisplay)
	assert.Equal(t, []string{"status", "author", "created_at"}, adm.ListFilter)
	assert.Equal(t, []string{"title"}, adm.SearchFields)
	assert.Equal(t, []string{"created_at"}, adm.ReadOnly)
	assert.Equal(t, []string{"-created_at"}, adm.Ordering)
	assert.Equal(t, "post", adm.VerboseName)
	assert.Equal(t, "posts", adm.VerboseNamePlural)
}

func TestGenerate_UnknownKind(t *testing.T) {
	res := resolution(apis.SurfaceForm, nil, "title", "price")
	_, _, err := factory.Generate(factory.Defaults(nil)[apis.SurfaceForm], post, res)
	require.Error(t, err)
	assert.True(t, apis.IsComponentGenerationError(err))
	assert.ErrorIs(t, err, kinds.ErrUnknownKind)

	var cge *apis.ComponentGenerationError
	require.ErrorAs(t, err, &cge)
	assert.Equal(t, apis.SurfaceForm, cge.Surface)
	assert.Equal(t, postID, cge.Entity)
}

func TestGenerate_CustomKindRegistered(t *testing.T) {
	tbl := kinds.Default()
	require.NoError(t, tbl.Register("money", kinds.Behavior{
		Input:  kinds.Input{Widget: "money"},
		Column: kinds.Column{Align: kinds.AlignRight},
	}))
	res := resolution(apis.SurfaceForm, nil, "price")
	art, _, err := factory.Generate(factory.NewFormFactory(tbl), post, res)
	require.NoError(t, err)
	f, _ := art.(*factory.Form).Field("price")
	assert.Equal(t, "money", f.Widget)
}

type panicking struct{}

func (panicking) Surface() apis.Surface { return apis.SurfaceTable }
func (panicking) Build(apis.Descriptor, apis.Resolution) (apis.Artifact, []*apis.ComponentWarning, error) {
	panic("boom")
}

type failing struct{}

func (failing) Surface() apis.Surface { return apis.SurfaceTable }
func (failing) Build(apis.Descriptor, apis.Resolution) (apis.Artifact, []*apis.ComponentWarning, error) {
	return nil, nil, errors.New("disk on fire")
}

func TestGenerate_Failures(t *testing.T) {
	res := resolution(apis.SurfaceTable, nil, "title")

	_, _, err := factory.Generate(panicking{}, post, res)
	assert.True(t, apis.IsComponentGenerationError(err))
	assert.Contains(t, err.Error(), "boom")

	_, _, err = factory.Generate(failing{}, post, res)
	assert.True(t, apis.IsComponentGenerationError(err))
	assert.Contains(t, err.Error(), "disk on fire")

	_, _, err = factory.Generate(nil, post, res)
	assert.ErrorIs(t, err, factory.ErrNoFactory)

	_, _, err = factory.Generate(failing{}, nil, res)
	assert.True(t, apis.IsComponentGenerationError(err))
}
