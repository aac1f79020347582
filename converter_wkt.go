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
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/reflect/protoreflect"
)

const (
	wellKnownValue     protoreflect.FullName = "google.protobuf.Value"
	wellKnownNullValue protoreflect.FullName = "google.protobuf.NullValue"
)

// wellKnownMessages have JSON forms defined by the protobuf JSON mapping rather
// than by their fields.
var wellKnownMessages = []protoreflect.FullName{
	"google.protobuf.Any",
	"google.protobuf.Duration",
	"google.protobuf.Empty",
	"google.protobuf.FieldMask",
	"google.protobuf.ListValue",
	"google.protobuf.Struct",
	"google.protobuf.Timestamp",
	wellKnownValue,
	"google.protobuf.BoolValue",
	"google.protobuf.BytesValue",
	"google.protobuf.DoubleValue",
	"google.protobuf.FloatValue",
	"google.protobuf.Int32Value",
	"google.protobuf.Int64Value",
	"google.protobuf.StringValue",
	"google.protobuf.UInt32Value",
	"google.protobuf.UInt64Value",
}

func isWellKnown(name protoreflect.FullName) bool {
	for _, known := range wellKnownMessages {
		if known == name {
			return true
		}
	}
	return false
}

// protojsonConverter delegates a message's JSON form to protojson. The codec
// registers it for every well-known type.
type protojsonConverter struct {
	marshalOptions   protojson.MarshalOptions
	unmarshalOptions protojson.UnmarshalOptions
}

var _ MessageConverter = (*protojsonConverter)(nil)

func newProtojsonConverter() *protojsonConverter {
	return &protojsonConverter{
		unmarshalOptions: protojson.UnmarshalOptions{DiscardUnknown: true},
	}
}

// ReadMessage re-serializes the tokens of one value and hands them to
// protojson.
func (c *protojsonConverter) ReadMessage(r TokenReader, dst protoreflect.Message) error {
	w := NewWriter()
	if err := copyValue(r, w); err != nil {
		return err
	}
	if err := w.Err(); err != nil {
		return err
	}
	if err := c.unmarshalOptions.Unmarshal(w.Bytes(), dst.Interface()); err != nil {
		return errorf(CodeInvalidValue, "%s: %w", dst.Descriptor().FullName(), err)
	}
	return nil
}

func (c *protojsonConverter) WriteMessage(w *Writer, src protoreflect.Message) error {
	data, err := c.marshalOptions.Marshal(src.Interface())
	if err != nil {
		return errorf(CodeInvalidValue, "%s: %w", src.Descriptor().FullName(), err)
	}
	w.Raw(data)
	return w.Err()
}

// copyValue moves the tokens of one complete value from r to w.
func copyValue(r TokenReader, w *Writer) error {
	if err := requireValue(r); err != nil {
		return err
	}
	depth := 0
	for {
		tok, err := r.Next()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case TokenObjectStart:
			w.StartObject()
			depth++
		case TokenObjectEnd:
			w.EndObject()
			depth--
		case TokenArrayStart:
			w.StartArray()
			depth++
		case TokenArrayEnd:
			w.EndArray()
			depth--
		case TokenName:
			w.Name(tok.Text)
		case TokenString:
			w.String(tok.Text)
		case TokenNumber:
			w.Number(tok.Text)
		case TokenBool:
			w.Bool(tok.Bool)
		case TokenNull:
			w.Null()
		default:
			return errorf(CodeSyntax, "unexpected %v", tok)
		}
		if depth <= 0 {
			return nil
		}
	}
}
