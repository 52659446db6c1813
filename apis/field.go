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

package apis

// Kind classifies the value stored by a field. Factories look up their
// per-surface defaults by Kind, so new kinds can be added without touching
// factory code.
type Kind string

const (
	KindString     Kind = "string"
	KindText       Kind = "text"
	KindEmail      Kind = "email"
	KindURL        Kind = "url"
	KindSlug       Kind = "slug"
	KindInt        Kind = "int"
	KindFloat      Kind = "float"
	KindDecimal    Kind = "decimal"
	KindBool       Kind = "bool"
	KindDate       Kind = "date"
	KindDateTime   Kind = "datetime"
	KindTime       Kind = "time"
	KindDuration   Kind = "duration"
	KindUUID       Kind = "uuid"
	KindEnum       Kind = "enum"
	KindJSON       Kind = "json"
	KindBytes      Kind = "bytes"
	KindForeignKey Kind = "foreign-key"
	KindOneToOne   Kind = "one-to-one"
	KindManyToMany Kind = "many-to-many"
)

// FieldInfo is the read-only reflection of one field of an entity type.
type FieldInfo struct {
	// Name is unique within its descriptor.
	Name string
	// Kind drives per-surface defaults.
	Kind Kind
	// Nullable marks fields that accept an empty value.
	Nullable bool
	// Editable is false for fields users cannot change (computed, auto ids).
	Editable bool
	// PrimaryKey marks the identity field.
	PrimaryKey bool
	// AutoManaged marks fields maintained by the storage layer
	// (creation/modification timestamps).
	AutoManaged bool
	// Internal marks type-discriminator and bookkeeping fields.
	Internal bool
	// Reverse marks the reverse side of a relation declared elsewhere.
	Reverse bool
	// AutoCreated marks many-to-many relations whose join table is managed
	// implicitly.
	AutoCreated bool
	// RelationTarget is the entity this field points to, nil for plain fields.
	RelationTarget *Identity
	// Choices enumerates allowed values, if restricted.
	Choices []string
	// VerboseName is the human label; empty means derive from Name.
	VerboseName string
	// HelpText is an optional description shown next to inputs.
	HelpText string
}

// IsRelation reports whether the field references another entity.
func (f FieldInfo) IsRelation() bool {
	return f.RelationTarget != nil
}

// FieldEntry is one item of a field list: either a single field name or a
// group of names that should be laid out together. Groups are a layout hint
// only; they never change which fields are selected.
type FieldEntry struct {
	names []string
	group bool
}

// Name returns a single-field entry.
func Name(name string) FieldEntry {
	return FieldEntry{names: []string{name}}
}

// Group returns a grouping entry. A group of one name is still a group.
func Group(names ...string) FieldEntry {
	cp := make([]string, len(names))
	copy(cp, names)
	return FieldEntry{names: cp, group: true}
}

// IsGroup reports whether the entry is a grouping hint.
func (e FieldEntry) IsGroup() bool { return e.group }

// Names returns the field names of the entry.
func (e FieldEntry) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// FieldList is an ordered list of field entries.
type FieldList []FieldEntry

// Fields builds a FieldList of single names.
func Fields(names ...string) FieldList {
	out := make(FieldList, 0, len(names))
	for _, n := range names {
		out = append(out, Name(n))
	}
	return out
}

// Flatten expands groups and returns all names in order.
func (l FieldList) Flatten() []string {
	var out []string
	for _, e := range l {
		out = append(out, e.names...)
	}
	return out
}

// Clone returns a deep copy of l. A nil list stays nil.
func (l FieldList) Clone() FieldList {
	if l == nil {
		return nil
	}
	out := make(FieldList, len(l))
	for i, e := range l {
		out[i] = FieldEntry{names: e.Names(), group: e.group}
	}
	return out
}
