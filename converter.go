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
	"cmp"
	"slices"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// A FieldConverter reads and writes the value of one field. A Field's
// converter is chosen from its kind and cardinality when the field model is
// built, and is shared by every message of that type.
type FieldConverter interface {
	// ReadField consumes exactly the tokens of the field's value and stores
	// it in dst.
	ReadField(r TokenReader, dst protoreflect.Message, field *Field) error
	// WriteField writes the value v of the field.
	WriteField(w *Writer, v protoreflect.Value, field *Field) error
}

// A MessageConverter gives every message of one type a custom JSON form. It's
// used wherever the message appears: at the top level, in fields, lists and
// map values. Null only reaches a MessageConverter for google.protobuf.Value
// list elements, map values and top-level documents.
type MessageConverter interface {
	// ReadMessage consumes one JSON value and populates dst, which is empty
	// and mutable.
	ReadMessage(r TokenReader, dst protoreflect.Message) error
	WriteMessage(w *Writer, src protoreflect.Message) error
}

// valueConverter reads and writes single values: a singular field's value, a
// list element, or a map value.
type valueConverter interface {
	readValue(r TokenReader, vt *ValueType) (protoreflect.Value, error)
	writeValue(w *Writer, v protoreflect.Value) error
}

type converterFactory struct {
	codec *Codec
}

func (f *converterFactory) forField(field *Field) FieldConverter {
	values := f.forValue(&field.ValueType)
	switch {
	case field.IsMap:
		return &mapConverter{codec: f.codec, values: values}
	case field.IsRepeated:
		return &listConverter{values: values}
	default:
		return &singularConverter{values: values}
	}
}

func (f *converterFactory) forValue(vt *ValueType) valueConverter {
	switch vt.Kind {
	case protoreflect.EnumKind:
		return &enumConverter{
			desc:  vt.Enum.Descriptor(),
			names: f.codec.config.EnumNames,
		}
	case protoreflect.MessageKind:
		return &messageConverter{codec: f.codec}
	default:
		return scalarConverter{kind: vt.Kind}
	}
}

type singularConverter struct {
	values valueConverter
}

func (c *singularConverter) ReadField(r TokenReader, dst protoreflect.Message, field *Field) error {
	tok, err := r.Peek()
	if err != nil {
		return err
	}
	// Null is absence, even for google.protobuf.Value, which mirrors how the
	// encoder writes unset fields.
	if tok.Kind == TokenNull {
		_, _ = r.Next()
		field.Accessor.Clear(dst)
		return nil
	}
	value, err := c.values.readValue(r, &field.ValueType)
	if err != nil {
		return err
	}
	field.Accessor.Set(dst, value)
	return nil
}

func (c *singularConverter) WriteField(w *Writer, v protoreflect.Value, _ *Field) error {
	return c.values.writeValue(w, v)
}

type listConverter struct {
	values valueConverter
}

func (c *listConverter) ReadField(r TokenReader, dst protoreflect.Message, field *Field) error {
	tok, err := r.Next()
	if err != nil {
		return err
	}
	field.Accessor.Clear(dst)
	if tok.Kind == TokenNull {
		return nil
	}
	if tok.Kind != TokenArrayStart {
		return errUnexpectedToken("array", tok, field.Descriptor().FullName())
	}
	list := field.Accessor.Mutable(dst).List()
	for {
		tok, err := r.Peek()
		if err != nil {
			return err
		}
		if tok.Kind == TokenArrayEnd {
			_, _ = r.Next()
			return nil
		}
		if tok.Kind == TokenNull && !field.ValueType.readsNull() {
			return errorf(CodeInvalidValue, "%s: null list element", field.Descriptor().FullName())
		}
		if err := requireValue(r); err != nil {
			return err
		}
		value, err := c.values.readValue(r, &field.ValueType)
		if err != nil {
			return err
		}
		list.Append(value)
	}
}

func (c *listConverter) WriteField(w *Writer, v protoreflect.Value, _ *Field) error {
	list := v.List()
	w.StartArray()
	for i := 0; i < list.Len(); i++ {
		if err := c.values.writeValue(w, list.Get(i)); err != nil {
			return err
		}
	}
	w.EndArray()
	return nil
}

type mapConverter struct {
	codec  *Codec
	values valueConverter
}

func (c *mapConverter) ReadField(r TokenReader, dst protoreflect.Message, field *Field) error {
	tok, err := r.Next()
	if err != nil {
		return err
	}
	field.Accessor.Clear(dst)
	if tok.Kind == TokenNull {
		return nil
	}
	fd := field.Descriptor()
	if tok.Kind != TokenObjectStart {
		return errUnexpectedToken("object", tok, fd.FullName())
	}
	entries := field.Accessor.Mutable(dst).Map()
	for {
		tok, err := r.Next()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case TokenObjectEnd:
			return nil
		case TokenName:
		default:
			if err := c.codec.skipMalformed(r, tok, fd.FullName()); err != nil {
				return err
			}
			continue
		}
		key, err := parseMapKey(fd.MapKey(), tok.Text)
		if err != nil {
			return err
		}
		next, err := r.Peek()
		if err != nil {
			return err
		}
		if next.Kind == TokenNull && !field.ValueType.readsNull() {
			return errorf(CodeInvalidValue, "%s: null value for key %q", fd.FullName(), tok.Text)
		}
		if err := requireValue(r); err != nil {
			return err
		}
		value, err := c.values.readValue(r, &field.ValueType)
		if err != nil {
			return err
		}
		entries.Set(key, value)
	}
}

// WriteField writes entries in key order, so output is deterministic.
func (c *mapConverter) WriteField(w *Writer, v protoreflect.Value, field *Field) error {
	entries := v.Map()
	keys := make([]protoreflect.MapKey, 0, entries.Len())
	entries.Range(func(key protoreflect.MapKey, _ protoreflect.Value) bool {
		keys = append(keys, key)
		return true
	})
	sortMapKeys(field.Descriptor().MapKey().Kind(), keys)
	w.StartObject()
	for _, key := range keys {
		w.Name(key.String())
		if err := c.values.writeValue(w, entries.Get(key)); err != nil {
			return err
		}
	}
	w.EndObject()
	return nil
}

func sortMapKeys(kind protoreflect.Kind, keys []protoreflect.MapKey) {
	slices.SortFunc(keys, func(a, b protoreflect.MapKey) int {
		switch kind {
		case protoreflect.StringKind:
			return cmp.Compare(a.String(), b.String())
		case protoreflect.BoolKind:
			if a.Bool() == b.Bool() {
				return 0
			}
			if !a.Bool() {
				return -1
			}
			return 1
		case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
			protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
			return cmp.Compare(a.Uint(), b.Uint())
		default:
			return cmp.Compare(a.Int(), b.Int())
		}
	})
}
