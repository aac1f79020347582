// Copyright 2021-2022 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pbjson

import (
	"golang.org/x/text/cases"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// An Accessor reads and writes one field of any message of its type.
type Accessor struct {
	fd protoreflect.FieldDescriptor
}

// Descriptor returns the field's descriptor.
func (a Accessor) Descriptor() protoreflect.FieldDescriptor {
	return a.fd
}

func (a Accessor) Get(m protoreflect.Message) protoreflect.Value {
	return m.Get(a.fd)
}

func (a Accessor) Set(m protoreflect.Message, v protoreflect.Value) {
	m.Set(a.fd, v)
}

func (a Accessor) Has(m protoreflect.Message) bool {
	return m.Has(a.fd)
}

func (a Accessor) Clear(m protoreflect.Message) {
	m.Clear(a.fd)
}

// Mutable returns the field's list, map, or message, allocating it if
// necessary.
func (a Accessor) Mutable(m protoreflect.Message) protoreflect.Value {
	return m.Mutable(a.fd)
}

// A Field is the conversion model for one field of a message type. Fields are
// built once per type by a Codec and are immutable.
type Field struct {
	Accessor Accessor
	// IsRepeated is true for list fields. Maps aren't reported as repeated.
	IsRepeated bool
	IsMap      bool
	// IsOneof is true for members of a oneof declared in the schema. Fields
	// in the synthetic oneofs that carry proto3 optional presence aren't
	// members.
	IsOneof bool
	// ValueType describes the field's values, or its elements for lists and
	// maps.
	ValueType ValueType
	// JSONName is the key the field is written under and decoded from.
	JSONName string

	converter FieldConverter
}

// Descriptor returns the field's descriptor.
func (f *Field) Descriptor() protoreflect.FieldDescriptor {
	return f.Accessor.fd
}

// Converter returns the strategy that reads and writes the field's value.
func (f *Field) Converter() FieldConverter {
	return f.converter
}

// A FieldSet is the conversion model for a message type: its fields in
// declaration order, indexed by JSON name.
type FieldSet struct {
	desc   protoreflect.MessageDescriptor
	fields []*Field
	byName map[string]*Field
	// byFoldedName is only populated for case-insensitive sets.
	byFoldedName map[string]*Field
}

// Descriptor returns the descriptor of the message type.
func (s *FieldSet) Descriptor() protoreflect.MessageDescriptor {
	return s.desc
}

// Len returns the number of fields.
func (s *FieldSet) Len() int {
	return len(s.fields)
}

// Field returns the i'th field in declaration order.
func (s *FieldSet) Field(i int) *Field {
	return s.fields[i]
}

// Lookup finds the field decoded from the given JSON key.
func (s *FieldSet) Lookup(name string) (*Field, bool) {
	if field, ok := s.byName[name]; ok {
		return field, true
	}
	if s.byFoldedName == nil {
		return nil, false
	}
	field, ok := s.byFoldedName[foldName(name)]
	return field, ok
}

// buildFieldSet resolves the JSON name, value type and converter of every
// field of the message type.
func buildFieldSet(mt protoreflect.MessageType, cfg *codecConfig, converters *converterFactory) (*FieldSet, error) {
	desc := mt.Descriptor()
	host := mt.New()
	fds := desc.Fields()
	set := &FieldSet{
		desc:   desc,
		fields: make([]*Field, 0, fds.Len()),
		byName: make(map[string]*Field, fds.Len()),
	}
	if cfg.CaseInsensitive {
		set.byFoldedName = make(map[string]*Field, fds.Len())
	}
	for i := 0; i < fds.Len(); i++ {
		fd := fds.Get(i)
		valueType, err := resolveValueType(fd, host)
		if err != nil {
			return nil, err
		}
		oneof := fd.ContainingOneof()
		field := &Field{
			Accessor:   Accessor{fd: fd},
			IsRepeated: fd.IsList(),
			IsMap:      fd.IsMap(),
			IsOneof:    oneof != nil && !oneof.IsSynthetic(),
			ValueType:  valueType,
			JSONName:   resolveJSONName(fd, cfg),
		}
		field.converter = converters.forField(field)
		set.fields = append(set.fields, field)
		if _, ok := set.byName[field.JSONName]; !ok {
			set.byName[field.JSONName] = field
		}
		if set.byFoldedName != nil {
			folded := foldName(field.JSONName)
			if _, ok := set.byFoldedName[folded]; !ok {
				set.byFoldedName[folded] = field
			}
		}
	}
	return set, nil
}

func resolveJSONName(fd protoreflect.FieldDescriptor, cfg *codecConfig) string {
	if cfg.SchemaNames {
		return fd.JSONName()
	}
	name := goCamelCase(string(fd.Name()))
	if cfg.NamingPolicy != nil {
		return cfg.NamingPolicy(name)
	}
	return name
}

// foldName applies Unicode case folding. Casers keep state, so each call gets
// its own.
func foldName(name string) string {
	return cases.Fold().String(name)
}
