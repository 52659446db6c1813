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

package descriptor

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-openapi/inflect"
	"github.com/google/uuid"

	"dirpx.dev/modelreg/apis"
	uref "dirpx.dev/modelreg/utils/reflect"
)

// TagName is the struct tag read by FromType.
//
//	type Post struct {
//	    ID        int       `modelreg:"id,pk,readonly"`
//	    Title     string    `modelreg:"title,verbose=headline"`
//	    Author    int       `modelreg:"author,rel=blog.Author"`
//	    Status    string    `modelreg:",kind=enum,choices=draft|published"`
//	    CreatedAt time.Time `modelreg:",auto"`
//	    Secret    string    `modelreg:"-"`
//	}
//
// The first element overrides the field name (default: snake_case of the Go
// name). Options: pk, readonly, auto, internal, reverse, autocreated, null,
// kind=<apis.Kind>, rel=<namespace.Type>, choices=a|b, verbose=..., help=...
const TagName = "modelreg"

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	uuidType     = reflect.TypeOf(uuid.UUID{})
	rawJSONType  = reflect.TypeOf(json.RawMessage{})
	namerType    = reflect.TypeOf((*apis.Namer)(nil)).Elem()
	describeType = reflect.TypeOf((*apis.Describer)(nil)).Elem()
)

// IdentityOf derives the identity of a Go type. Containers are unwrapped to
// the nearest named struct. If the type (or a pointer to it) implements
// apis.Namer, its EntityName is parsed as "namespace.TypeName"; otherwise the
// identity is "<last package path element>.<TypeName>".
func IdentityOf(t reflect.Type) (apis.Identity, error) {
	base, err := uref.Normalize(t, uref.DefaultMaxUnwrap)
	if err != nil {
		return apis.Identity{}, err
	}
	if name, ok := entityName(base); ok {
		return apis.ParseIdentifier(name)
	}
	pkg, name := uref.TypeName(base)
	return apis.Identity{Namespace: pkg, Name: name}, nil
}

// FromType builds a Descriptor by reflecting over the exported fields of a
// struct type. Unexported and embedded fields are skipped.
func FromType(t reflect.Type, opts ...Option) (*Descriptor, error) {
	id, err := IdentityOf(t)
	if err != nil {
		return nil, apis.NewConfigurationError(apis.Identity{}, "type", err.Error())
	}
	base, _ := uref.Normalize(t, uref.DefaultMaxUnwrap)

	infos := make([]apis.FieldInfo, 0, base.NumField())
	for i := 0; i < base.NumField(); i++ {
		sf := base.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		info, skip, err := fieldFromStruct(sf)
		if err != nil {
			return nil, apis.NewConfigurationError(id, "field "+sf.Name, err.Error())
		}
		if skip {
			continue
		}
		infos = append(infos, info)
	}

	if desc, ok := entityDescription(base); ok {
		opts = append([]Option{WithDescription(desc)}, opts...)
	}
	return FromInfos(id, infos, opts...)
}

// FromValue is FromType(reflect.TypeOf(v)).
func FromValue(v any, opts ...Option) (*Descriptor, error) {
	return FromType(reflect.TypeOf(v), opts...)
}

func fieldFromStruct(sf reflect.StructField) (apis.FieldInfo, bool, error) {
	tag := sf.Tag.Get(TagName)
	if tag == "-" {
		return apis.FieldInfo{}, true, nil
	}
	parts := strings.Split(tag, ",")

	info := apis.FieldInfo{
		Name:     strings.TrimSpace(parts[0]),
		Editable: true,
	}
	if info.Name == "" {
		info.Name = inflect.Underscore(sf.Name)
	}

	ft, ptr := uref.Deref(sf.Type)
	info.Nullable = ptr
	info.Kind = kindOf(ft)

	for _, opt := range parts[1:] {
		key, value, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "":
		case "pk":
			info.PrimaryKey = true
		case "readonly":
			info.Editable = false
		case "auto":
			info.AutoManaged = true
			info.Editable = false
		case "internal":
			info.Internal = true
		case "reverse":
			info.Reverse = true
		case "autocreated":
			info.AutoCreated = true
		case "null":
			info.Nullable = true
		case "kind":
			info.Kind = apis.Kind(value)
		case "rel":
			target, err := apis.ParseIdentifier(value)
			if err != nil {
				return info, false, err
			}
			info.RelationTarget = &target
			if !isRelationKind(info.Kind) {
				info.Kind = relationKindOf(ft)
			}
		case "choices":
			if value != "" {
				info.Choices = strings.Split(value, "|")
			}
			if info.Kind == apis.KindString {
				info.Kind = apis.KindEnum
			}
		case "verbose":
			info.VerboseName = value
		case "help":
			info.HelpText = value
		default:
			return info, false, fmt.Errorf("unknown %s tag option %q", TagName, key)
		}
	}
	if info.Kind == "" {
		return info, false, fmt.Errorf("cannot infer kind of %s; use kind=", sf.Type)
	}
	return info, false, nil
}

// kindOf infers the field kind from a dereferenced Go type.
// It returns "" when no kind fits.
func kindOf(t reflect.Type) apis.Kind {
	switch t {
	case timeType:
		return apis.KindDateTime
	case durationType:
		return apis.KindDuration
	case uuidType:
		return apis.KindUUID
	case rawJSONType:
		return apis.KindJSON
	}
	switch t.Kind() {
	case reflect.String:
		return apis.KindString
	case reflect.Bool:
		return apis.KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return apis.KindInt
	case reflect.Float32, reflect.Float64:
		return apis.KindFloat
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return apis.KindBytes
		}
		return apis.KindJSON
	case reflect.Map, reflect.Struct, reflect.Array:
		return apis.KindJSON
	}
	return ""
}

func isRelationKind(k apis.Kind) bool {
	return k == apis.KindForeignKey || k == apis.KindOneToOne || k == apis.KindManyToMany
}

// relationKindOf picks many-to-many for slice-typed relations, foreign key otherwise.
func relationKindOf(t reflect.Type) apis.Kind {
	if t.Kind() == reflect.Slice && t.Elem().Kind() != reflect.Uint8 {
		return apis.KindManyToMany
	}
	return apis.KindForeignKey
}

func entityName(t reflect.Type) (string, bool) {
	v, ok := implementor(t, namerType)
	if !ok {
		return "", false
	}
	return v.Interface().(apis.Namer).EntityName(), true
}

func entityDescription(t reflect.Type) (string, bool) {
	v, ok := implementor(t, describeType)
	if !ok {
		return "", false
	}
	return v.Interface().(apis.Describer).EntityDescription(), true
}

// implementor returns a zero value of t or *t that implements iface.
func implementor(t reflect.Type, iface reflect.Type) (reflect.Value, bool) {
	switch {
	case t.Implements(iface):
		return reflect.Zero(t), true
	case reflect.PointerTo(t).Implements(iface):
		return reflect.New(t), true
	}
	return reflect.Value{}, false
}
