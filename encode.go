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
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Encode writes a message to w. A nil message is written as null.
func (c *Codec) Encode(w *Writer, message proto.Message) error {
	if message == nil {
		w.Null()
		return w.Err()
	}
	msg := message.ProtoReflect()
	if !msg.IsValid() {
		w.Null()
		return w.Err()
	}
	if err := c.writeMessage(w, msg); err != nil {
		return err
	}
	return w.Err()
}

func (c *Codec) writeMessage(w *Writer, src protoreflect.Message) error {
	if converter, ok := c.messageConverter(src.Descriptor()); ok {
		return converter.WriteMessage(w, src)
	}
	set, err := c.FieldSet(src.Type())
	if err != nil {
		return err
	}
	return c.writeFields(w, set, src)
}

// writeFields writes the fields in declaration order. Unselected oneof members
// are never written. Otherwise a field is written when it's set or, for fields
// without presence, holds a non-default value; with OmitNever, the remaining
// fields are written too, as null if they have presence.
func (c *Codec) writeFields(w *Writer, set *FieldSet, src protoreflect.Message) error {
	omitDefaults := c.config.Omission.omitsDefaults()
	w.StartObject()
	for _, field := range set.fields {
		fd := field.Descriptor()
		if field.IsOneof && src.WhichOneof(fd.ContainingOneof()) != fd {
			continue
		}
		if !field.Accessor.Has(src) {
			if omitDefaults {
				continue
			}
			if fd.HasPresence() {
				w.Name(field.JSONName)
				w.Null()
				continue
			}
		}
		w.Name(field.JSONName)
		if err := field.converter.WriteField(w, field.Accessor.Get(src), field); err != nil {
			return err
		}
	}
	w.EndObject()
	return w.Err()
}
