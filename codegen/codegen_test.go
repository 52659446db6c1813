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

package codegen_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/codegen"
	"dirpx.dev/modelreg/descriptor"
	"dirpx.dev/modelreg/factory"
	"dirpx.dev/modelreg/model"
)

// squash collapses runs of whitespace so gofmt alignment does not matter.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestRender_Structs(t *testing.T) {
	post := factory.NewSerializer(apis.Identity{Namespace: "blog", Name: "Post"}, "Post",
		factory.WireField{Name: "title", Kind: apis.KindString, Scalar: "String"},
		factory.WireField{Name: "rating", Kind: apis.KindFloat, Scalar: "Float", Nullable: true},
		factory.WireField{Name: "author__name", Kind: apis.KindString, Scalar: "String", Nullable: true, ReadOnly: true},
		factory.WireField{Name: "tags", Kind: apis.KindManyToMany, Scalar: "ID", List: true},
		factory.WireField{Name: "published_at", Kind: apis.KindDateTime, Scalar: "DateTime", Custom: true},
		factory.WireField{Name: "ref", Kind: apis.KindUUID, Scalar: "ID"},
	)
	author := factory.NewSerializer(apis.Identity{Namespace: "auth", Name: "Author"}, "Author",
		factory.WireField{Name: "name", Kind: apis.KindString, Scalar: "String"},
	)

	var buf bytes.Buffer
	require.NoError(t, codegen.Render(&buf, "dto", post, nil, author))
	out := squash(buf.String())

	assert.Contains(t, out, "// "+codegen.HeaderComment)
	assert.Contains(t, out, "package dto")
	assert.Contains(t, out, `"github.com/google/uuid"`)
	assert.Contains(t, out, `"time"`)
	assert.Contains(t, out, "Title string `json:\"title\" msgpack:\"title\"`")
	assert.Contains(t, out, "Rating *float64 `json:\"rating,omitempty\" msgpack:\"rating\"`")
	assert.Contains(t, out, "AuthorName *string `json:\"author__name,omitempty\" msgpack:\"author__name\"`")
	assert.Contains(t, out, "Tags []string")
	assert.Contains(t, out, "PublishedAt time.Time")
	assert.Contains(t, out, "Ref uuid.UUID")
	assert.Less(t, strings.Index(out, "type Author struct"), strings.Index(out, "type Post struct"),
		"structs are ordered by type name")
}

func TestFile_FromGeneratedSerializer(t *testing.T) {
	d := descriptor.MustNew(apis.Identity{Namespace: "crm", Name: "Contact"}, []*descriptor.Field{
		descriptor.ID(),
		descriptor.String("full_name"),
		descriptor.Bool("active"),
	})
	c := model.MustNew(d)
	ser, err := c.Serializer()
	require.NoError(t, err)

	out := squash(codegen.File("crm", ser).GoString())
	assert.Contains(t, out, "type "+ser.TypeName+" struct")
	assert.Contains(t, out, "FullName string")
	assert.Contains(t, out, "Active bool")
}

func TestGoNames_Distinct(t *testing.T) {
	names := codegen.GoNames([]factory.WireField{
		{Name: "author_name"},
		{Name: "author__name"},
		{Name: "AuthorName"},
	})
	assert.Equal(t, []string{"AuthorName", "Author__name", "AuthorName_2"}, names)
}

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"title":        "Title",
		"created_at":   "CreatedAt",
		"author__name": "AuthorName",
		"_internal":    "Internal",
		"2fa":          "F2fa",
	}
	for in, want := range tests {
		assert.Equal(t, want, codegen.GoName(in), in)
	}
}
