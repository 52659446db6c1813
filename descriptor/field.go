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

import "dirpx.dev/modelreg/apis"

// Field is a fluent builder for one apis.FieldInfo.
// Fields are editable unless marked otherwise.
type Field struct {
	info apis.FieldInfo
}

// NewField returns a builder for a field of the given kind.
func NewField(name string, kind apis.Kind) *Field {
	return &Field{info: apis.FieldInfo{Name: name, Kind: kind, Editable: true}}
}

// ID returns the conventional auto-increment primary key "id".
func ID() *Field { return Int("id").PrimaryKey().ReadOnly() }

func String(name string) *Field   { return NewField(name, apis.KindString) }
func Text(name string) *Field     { return NewField(name, apis.KindText) }
func Email(name string) *Field    { return NewField(name, apis.KindEmail) }
func URL(name string) *Field      { return NewField(name, apis.KindURL) }
func Slug(name string) *Field     { return NewField(name, apis.KindSlug) }
func Int(name string) *Field      { return NewField(name, apis.KindInt) }
func Float(name string) *Field    { return NewField(name, apis.KindFloat) }
func Decimal(name string) *Field  { return NewField(name, apis.KindDecimal) }
func Bool(name string) *Field     { return NewField(name, apis.KindBool) }
func Date(name string) *Field     { return NewField(name, apis.KindDate) }
func DateTime(name string) *Field { return NewField(name, apis.KindDateTime) }
func Time(name string) *Field     { return NewField(name, apis.KindTime) }
func Duration(name string) *Field { return NewField(name, apis.KindDuration) }
func UUID(name string) *Field     { return NewField(name, apis.KindUUID) }
func JSON(name string) *Field     { return NewField(name, apis.KindJSON) }
func Bytes(name string) *Field    { return NewField(name, apis.KindBytes) }

// Enum returns a field restricted to the given values.
func Enum(name string, values ...string) *Field {
	return NewField(name, apis.KindEnum).Choices(values...)
}

// ForeignKey returns a many-to-one relation to target.
func ForeignKey(name string, target apis.Identity) *Field {
	return NewField(name, apis.KindForeignKey).Target(target)
}

// OneToOne returns a one-to-one relation to target.
func OneToOne(name string, target apis.Identity) *Field {
	return NewField(name, apis.KindOneToOne).Target(target)
}

// ManyToMany returns a many-to-many relation to target.
func ManyToMany(name string, target apis.Identity) *Field {
	return NewField(name, apis.KindManyToMany).Target(target)
}

// Nullable marks the field as accepting empty values.
func (f *Field) Nullable() *Field { f.info.Nullable = true; return f }

// ReadOnly marks the field as not editable.
func (f *Field) ReadOnly() *Field { f.info.Editable = false; return f }

// PrimaryKey marks the field as the identity field.
func (f *Field) PrimaryKey() *Field { f.info.PrimaryKey = true; return f }

// AutoManaged marks the field as maintained by storage (timestamps).
// Auto-managed fields are not editable.
func (f *Field) AutoManaged() *Field {
	f.info.AutoManaged = true
	f.info.Editable = false
	return f
}

// Internal marks the field as a discriminator or bookkeeping field.
func (f *Field) Internal() *Field { f.info.Internal = true; return f }

// Reverse marks the field as the reverse side of a relation.
func (f *Field) Reverse() *Field { f.info.Reverse = true; return f }

// AutoCreated marks a many-to-many relation with an implicit join table.
func (f *Field) AutoCreated() *Field { f.info.AutoCreated = true; return f }

// Target sets the relation target.
func (f *Field) Target(id apis.Identity) *Field { f.info.RelationTarget = &id; return f }

// Choices restricts the field to values.
func (f *Field) Choices(values ...string) *Field {
	f.info.Choices = append([]string(nil), values...)
	return f
}

// Verbose sets the human label.
func (f *Field) Verbose(name string) *Field { f.info.VerboseName = name; return f }

// Help sets the help text.
func (f *Field) Help(text string) *Field { f.info.HelpText = text; return f }

// Info returns the assembled FieldInfo.
func (f *Field) Info() apis.FieldInfo { return f.info }
