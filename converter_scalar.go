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
	"encoding/base64"
	"math"
	"math/big"
	"strconv"

	"google.golang.org/protobuf/reflect/protoreflect"
)

type scalarConverter struct {
	kind protoreflect.Kind
}

func (c scalarConverter) readValue(r TokenReader, _ *ValueType) (protoreflect.Value, error) {
	tok, err := r.Next()
	if err != nil {
		return protoreflect.Value{}, err
	}
	switch c.kind {
	case protoreflect.BoolKind:
		if tok.Kind != TokenBool {
			return protoreflect.Value{}, errScalar(c.kind, tok)
		}
		return protoreflect.ValueOfBool(tok.Bool), nil
	case protoreflect.StringKind:
		if tok.Kind != TokenString {
			return protoreflect.Value{}, errScalar(c.kind, tok)
		}
		return protoreflect.ValueOfString(tok.Text), nil
	case protoreflect.BytesKind:
		if tok.Kind != TokenString {
			return protoreflect.Value{}, errScalar(c.kind, tok)
		}
		data, err := decodeBase64(tok.Text)
		if err != nil {
			return protoreflect.Value{}, errorf(CodeInvalidValue, "invalid base64 %q: %w", tok.Text, err)
		}
		return protoreflect.ValueOfBytes(data), nil
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		bitSize := 64
		if c.kind == protoreflect.FloatKind {
			bitSize = 32
		}
		f, err := parseFloat(tok, bitSize)
		if err != nil {
			return protoreflect.Value{}, err
		}
		if bitSize == 32 {
			return protoreflect.ValueOfFloat32(float32(f)), nil
		}
		return protoreflect.ValueOfFloat64(f), nil
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		n, err := parseInt(tok, 32)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfInt32(int32(n)), nil
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		n, err := parseInt(tok, 64)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfInt64(n), nil
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		n, err := parseUint(tok, 32)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfUint32(uint32(n)), nil
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		n, err := parseUint(tok, 64)
		if err != nil {
			return protoreflect.Value{}, err
		}
		return protoreflect.ValueOfUint64(n), nil
	}
	return protoreflect.Value{}, errorf(CodeUnsupportedKind, "unsupported scalar kind %v", c.kind)
}

func (c scalarConverter) writeValue(w *Writer, v protoreflect.Value) error {
	switch c.kind {
	case protoreflect.BoolKind:
		w.Bool(v.Bool())
	case protoreflect.StringKind:
		w.String(v.String())
	case protoreflect.BytesKind:
		w.String(base64.StdEncoding.EncodeToString(v.Bytes()))
	case protoreflect.FloatKind:
		w.Float(v.Float(), 32)
	case protoreflect.DoubleKind:
		w.Float(v.Float(), 64)
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind,
		protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		w.Int(v.Int())
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind,
		protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		w.Uint(v.Uint())
	default:
		return errorf(CodeUnsupportedKind, "unsupported scalar kind %v", c.kind)
	}
	return w.Err()
}

type enumConverter struct {
	desc  protoreflect.EnumDescriptor
	names bool
}

func (c *enumConverter) readValue(r TokenReader, _ *ValueType) (protoreflect.Value, error) {
	tok, err := r.Next()
	if err != nil {
		return protoreflect.Value{}, err
	}
	switch tok.Kind {
	case TokenNull:
		if c.desc.FullName() == wellKnownNullValue {
			return protoreflect.ValueOfEnum(0), nil
		}
	case TokenString:
		if value := c.desc.Values().ByName(protoreflect.Name(tok.Text)); value != nil {
			return protoreflect.ValueOfEnum(value.Number()), nil
		}
		return protoreflect.Value{}, errorf(CodeInvalidValue, "%s has no value named %q", c.desc.FullName(), tok.Text)
	case TokenNumber:
		n, err := parseInt(tok, 32)
		if err != nil {
			return protoreflect.Value{}, err
		}
		// Open enums keep numbers without a declared name.
		return protoreflect.ValueOfEnum(protoreflect.EnumNumber(n)), nil
	}
	return protoreflect.Value{}, errUnexpectedToken("enum", tok, c.desc.FullName())
}

func (c *enumConverter) writeValue(w *Writer, v protoreflect.Value) error {
	if c.desc.FullName() == wellKnownNullValue {
		w.Null()
		return w.Err()
	}
	number := v.Enum()
	if c.names {
		if value := c.desc.Values().ByNumber(number); value != nil {
			w.String(string(value.Name()))
			return w.Err()
		}
	}
	w.Int(int64(number))
	return w.Err()
}

// parseMapKey converts a JSON property name to a map key of the given kind.
func parseMapKey(fd protoreflect.FieldDescriptor, name string) (protoreflect.MapKey, error) {
	tok := Token{Kind: TokenString, Text: name}
	switch fd.Kind() {
	case protoreflect.StringKind:
		return protoreflect.ValueOfString(name).MapKey(), nil
	case protoreflect.BoolKind:
		switch name {
		case "true":
			return protoreflect.ValueOfBool(true).MapKey(), nil
		case "false":
			return protoreflect.ValueOfBool(false).MapKey(), nil
		}
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		if n, err := parseInt(tok, 32); err == nil {
			return protoreflect.ValueOfInt32(int32(n)).MapKey(), nil
		}
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		if n, err := parseInt(tok, 64); err == nil {
			return protoreflect.ValueOfInt64(n).MapKey(), nil
		}
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		if n, err := parseUint(tok, 32); err == nil {
			return protoreflect.ValueOfUint32(uint32(n)).MapKey(), nil
		}
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		if n, err := parseUint(tok, 64); err == nil {
			return protoreflect.ValueOfUint64(n).MapKey(), nil
		}
	}
	return protoreflect.MapKey{}, errorf(CodeInvalidValue, "%s: invalid %v map key %q", fd.FullName(), fd.Kind(), name)
}

// numberLiteral returns the literal of a number, which may also be quoted.
// Quoted literals follow the same grammar as bare ones.
func numberLiteral(tok Token) (string, error) {
	switch tok.Kind {
	case TokenNumber:
		return tok.Text, nil
	case TokenString:
		if !isNumberLiteral(tok.Text) {
			return "", errorf(CodeInvalidValue, "invalid number %s", tok)
		}
		return tok.Text, nil
	}
	return "", errNumber(tok)
}

func parseInt(tok Token, bitSize int) (int64, error) {
	text, err := numberLiteral(tok)
	if err != nil {
		return 0, err
	}
	if n, err := strconv.ParseInt(text, 10, bitSize); err == nil {
		return n, nil
	}
	// Exponents and fractions are fine as long as the value is integral.
	n, ok := exactInteger(text)
	if !ok {
		return 0, errorf(CodeInvalidValue, "invalid integer %s", tok)
	}
	if !n.IsInt64() || (bitSize < 64 && (n.Int64() < -1<<(bitSize-1) || n.Int64() >= 1<<(bitSize-1))) {
		return 0, errorf(CodeInvalidValue, "integer %s overflows int%d", tok, bitSize)
	}
	return n.Int64(), nil
}

func parseUint(tok Token, bitSize int) (uint64, error) {
	text, err := numberLiteral(tok)
	if err != nil {
		return 0, err
	}
	if n, err := strconv.ParseUint(text, 10, bitSize); err == nil {
		return n, nil
	}
	n, ok := exactInteger(text)
	if !ok {
		return 0, errorf(CodeInvalidValue, "invalid unsigned integer %s", tok)
	}
	if !n.IsUint64() || (bitSize < 64 && n.Uint64() >= 1<<bitSize) {
		return 0, errorf(CodeInvalidValue, "integer %s overflows uint%d", tok, bitSize)
	}
	return n.Uint64(), nil
}

// exactInteger evaluates a number literal without rounding and reports
// whether it is integral.
func exactInteger(text string) (*big.Int, bool) {
	r, ok := new(big.Rat).SetString(text)
	if !ok || !r.IsInt() {
		return nil, false
	}
	return r.Num(), true
}

func parseFloat(tok Token, bitSize int) (float64, error) {
	if tok.Kind == TokenString {
		switch tok.Text {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
	}
	text, err := numberLiteral(tok)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(text, bitSize)
	if err != nil {
		return 0, errorf(CodeInvalidValue, "invalid float%d %s", bitSize, tok)
	}
	return f, nil
}

func decodeBase64(text string) ([]byte, error) {
	encoding := base64.StdEncoding
	for _, c := range text {
		if c == '-' || c == '_' {
			encoding = base64.URLEncoding
			break
		}
	}
	if len(text)%4 != 0 {
		encoding = encoding.WithPadding(base64.NoPadding)
	}
	return encoding.DecodeString(text)
}

func errScalar(kind protoreflect.Kind, got Token) *Error {
	return errorf(CodeTypeMismatch, "expected %v value, got %v", kind, got)
}

func errNumber(got Token) *Error {
	return errorf(CodeTypeMismatch, "expected number, got %v", got)
}
