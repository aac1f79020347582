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
	"google.golang.org/protobuf/reflect/protoreflect"
)

// messageConverter handles message-typed values by recursing into the codec,
// which looks up the nested type's field model (or custom converter) on use.
// Resolving lazily lets recursive schemas build without recursion.
type messageConverter struct {
	codec *Codec
}

func (c *messageConverter) readValue(r TokenReader, vt *ValueType) (protoreflect.Value, error) {
	msg := vt.Message.New()
	if err := c.codec.readMessage(r, msg); err != nil {
		return protoreflect.Value{}, err
	}
	return protoreflect.ValueOfMessage(msg), nil
}

func (c *messageConverter) writeValue(w *Writer, v protoreflect.Value) error {
	return c.codec.writeMessage(w, v.Message())
}
