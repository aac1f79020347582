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

// Decode reads one JSON value from r into a new message of type mt. A JSON
// null returns a nil message and a nil error.
func (c *Codec) Decode(r TokenReader, mt protoreflect.MessageType) (proto.Message, error) {
	tok, err := r.Peek()
	if err != nil {
		return nil, wrapIfUncoded(err)
	}
	if tok.Kind == TokenNull && mt.Descriptor().FullName() != wellKnownValue {
		_, _ = r.Next()
		return nil, nil //nolint:nilnil
	}
	msg := mt.New()
	if err := c.readMessage(r, msg); err != nil {
		return nil, wrapIfUncoded(err)
	}
	return msg.Interface(), nil
}

// decodeInto reads one JSON value into dst, leaving it untouched for null.
func (c *Codec) decodeInto(r TokenReader, dst protoreflect.Message) error {
	tok, err := r.Peek()
	if err != nil {
		return err
	}
	if tok.Kind == TokenNull && dst.Descriptor().FullName() != wellKnownValue {
		_, err := r.Next()
		return err
	}
	return c.readMessage(r, dst)
}

// readMessage reads a non-null value into dst using the type's custom
// converter, if there is one, or its field model.
func (c *Codec) readMessage(r TokenReader, dst protoreflect.Message) error {
	if converter, ok := c.messageConverter(dst.Descriptor()); ok {
		return converter.ReadMessage(r, dst)
	}
	set, err := c.FieldSet(dst.Type())
	if err != nil {
		return err
	}
	return c.readFields(r, set, dst)
}

func (c *Codec) readFields(r TokenReader, set *FieldSet, dst protoreflect.Message) error {
	name := set.Descriptor().FullName()
	tok, err := r.Next()
	if err != nil {
		return err
	}
	if tok.Kind == TokenEOF {
		return errorf(CodeSyntax, "expected JSON object for %s, got end of input", name)
	}
	if tok.Kind != TokenObjectStart {
		return errorf(CodeTypeMismatch, "expected JSON object for %s, got %v", name, tok)
	}
	for {
		tok, err := r.Next()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case TokenObjectEnd:
			return nil
		case TokenName:
			field, ok := set.Lookup(tok.Text)
			if !ok {
				if err := skipValue(r); err != nil {
					return err
				}
				continue
			}
			if err := requireValue(r); err != nil {
				return err
			}
			if err := field.converter.ReadField(r, dst, field); err != nil {
				return err
			}
		default:
			if err := c.skipMalformed(r, tok, name); err != nil {
				return err
			}
		}
	}
}

// skipMalformed discards a token found where a property name belongs, along
// with the rest of the container it opens. It only fails at the end of input.
func (c *Codec) skipMalformed(r TokenReader, tok Token, within protoreflect.FullName) error {
	switch tok.Kind {
	case TokenEOF:
		return errorf(CodeSyntax, "%s: unexpected end of input", within)
	case TokenObjectStart, TokenArrayStart:
		c.warn(errorf(CodeSyntax, "%s: skipping %v where a property name belongs", within, tok))
		return skipContainer(r)
	}
	c.warn(errorf(CodeSyntax, "%s: skipping %v where a property name belongs", within, tok))
	return nil
}
