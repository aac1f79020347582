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
	"strings"
	"testing"

	"github.com/robertlyson/pbjson/internal/assert"
	"github.com/robertlyson/pbjson/internal/testschema"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestDecode(t *testing.T) {
	t.Parallel()
	codec := NewCodec()
	t.Run("null", func(t *testing.T) {
		t.Parallel()
		msg, err := codec.Decode(NewReader(strings.NewReader("null")), testschema.MessageType("Item"))
		assert.Nil(t, err)
		assert.Nil(t, msg)
	})
	t.Run("null value", func(t *testing.T) {
		t.Parallel()
		msg, err := codec.Decode(NewReader(strings.NewReader("null")), (&structpb.Value{}).ProtoReflect().Type())
		assert.Nil(t, err)
		assert.Equal(t, msg, proto.Message(structpb.NewNullValue()))
	})
	t.Run("object", func(t *testing.T) {
		t.Parallel()
		r := NewReader(strings.NewReader(`{"id": 5, "tags": ["a"]}`))
		msg, err := codec.Decode(r, testschema.MessageType("Item"))
		assert.Nil(t, err)
		assertProtoEqual(t, msg.ProtoReflect(), testschema.Item(5, "a"))
		tok, err := r.Next()
		assert.Nil(t, err)
		assert.Equal(t, tok.Kind, TokenEOF)
	})
	t.Run("not an object", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{`[1]`, `"x"`, `3`, `true`} {
			_, err := codec.Decode(NewReader(strings.NewReader(input)), testschema.MessageType("Item"))
			assert.Equal(t, CodeOf(err), CodeTypeMismatch, assert.Sprintf("decode %s", input))
			assert.Match(t, err.Error(), `expected JSON object for pbjson\.test\.v1\.Item`)
		}
	})
	t.Run("nested not an object", func(t *testing.T) {
		t.Parallel()
		err := codec.Unmarshal([]byte(`{"primary": 5}`), testschema.New("User").Interface())
		assert.Equal(t, CodeOf(err), CodeTypeMismatch)
		assert.Match(t, err.Error(), `pbjson\.test\.v1\.Item`)
		err = codec.Unmarshal([]byte(`{"items": [{}, []]}`), testschema.New("User").Interface())
		assert.Equal(t, CodeOf(err), CodeTypeMismatch)
	})
	t.Run("truncated", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{`{"id": 1`, `{"id": `, `{"tags": ["a"`, `{"zzz": {"a": [`} {
			err := codec.Unmarshal([]byte(input), testschema.New("Item").Interface())
			assert.Equal(t, CodeOf(err), CodeSyntax, assert.Sprintf("decode %s", input))
		}
	})
	t.Run("missing value", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{`{"id": }`, `{"zzz": }`} {
			err := codec.Unmarshal([]byte(input), testschema.New("Item").Interface())
			assert.Equal(t, CodeOf(err), CodeSyntax, assert.Sprintf("decode %s", input))
		}
	})
	t.Run("malformed separators", func(t *testing.T) {
		t.Parallel()
		inputs := []string{
			`{"id":7 "tags":["a"]}`,
			`{"id" 7}`,
			`{"id":7,,"tags":[]}`,
			`{"tags":["a" "b"]}`,
			`{"id":7,}`,
			`{"tags":["a",]}`,
			`{"id":7}}`,
		}
		for _, input := range inputs {
			msg := testschema.New("Item")
			err := codec.Unmarshal([]byte(input), msg.Interface())
			assert.Equal(t, CodeOf(err), CodeSyntax, assert.Sprintf("decode %s", input))
			assertProtoEqual(t, msg, testschema.New("Item"))
		}
	})
	t.Run("malformed numbers", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{`{"id":07}`, `{"id":-07}`, `{"id":1.}`, `{"id":1e}`, `{"id":-}`, `{"id":1-2}`} {
			err := codec.Unmarshal([]byte(input), testschema.New("Item").Interface())
			assert.Equal(t, CodeOf(err), CodeSyntax, assert.Sprintf("decode %s", input))
			_, err = codec.Decode(NewReader(strings.NewReader(input)), testschema.MessageType("Item"))
			assert.Equal(t, CodeOf(err), CodeSyntax, assert.Sprintf("decode %s", input))
		}
	})
}

func TestDecodeUnknownKeys(t *testing.T) {
	t.Parallel()
	codec := NewCodec()
	input := `{
		"before": {"a": [1, {"b": null}], "c": "d"},
		"id": 7,
		"between": [[], {}, "x", 1.5e3, false, null],
		"tags": ["a", "b"],
		"after": "tags"
	}`
	assertProtoEqual(t, unmarshal(t, codec, "Item", input), testschema.Item(7, "a", "b"))
	// Keys that differ only by case are unknown unless matching is
	// case-insensitive.
	assertProtoEqual(t, unmarshal(t, codec, "Item", `{"ID": 3, "Tags": ["x"]}`), testschema.New("Item"))
	insensitive := NewCodec(WithCaseInsensitive(true))
	assertProtoEqual(t, unmarshal(t, insensitive, "Item", `{"ID": 3, "Tags": ["x"]}`), testschema.Item(3, "x"))
}

func TestDecodeNulls(t *testing.T) {
	t.Parallel()
	codec := NewCodec()
	input := `{
		"userId": null,
		"nickname": null,
		"status": null,
		"history": null,
		"scores": null,
		"primary": null,
		"items": null,
		"createdAt": null,
		"extra": null,
		"manager": null
	}`
	assertProtoEqual(t, unmarshal(t, codec, "User", input), testschema.New("User"))

	t.Run("later null clears", func(t *testing.T) {
		t.Parallel()
		got := unmarshal(t, codec, "User", `{"nickname": "ada", "nickname": null, "extra": "x", "extra": null}`)
		assert.False(t, got.Has(testschema.Field(got, "nickname")))
		assert.False(t, got.Has(testschema.Field(got, "extra")))
	})
	t.Run("null list element", func(t *testing.T) {
		t.Parallel()
		err := codec.Unmarshal([]byte(`{"tags": ["a", null]}`), testschema.New("Item").Interface())
		assert.Equal(t, CodeOf(err), CodeInvalidValue)
	})
	t.Run("null map value", func(t *testing.T) {
		t.Parallel()
		err := codec.Unmarshal([]byte(`{"scores": {"a": null}}`), testschema.New("User").Interface())
		assert.Equal(t, CodeOf(err), CodeInvalidValue)
	})
	t.Run("null struct members", func(t *testing.T) {
		t.Parallel()
		got := &structpb.Struct{}
		assert.Nil(t, codec.Unmarshal([]byte(`{"a": null, "b": [null]}`), got))
		assert.Equal(t, got.GetFields()["a"], structpb.NewNullValue())
		assert.Equal(t, got.GetFields()["b"].GetListValue().GetValues()[0], structpb.NewNullValue())
	})
}

func TestDecodeRepeatedKeys(t *testing.T) {
	t.Parallel()
	codec := NewCodec()
	assertProtoEqual(
		t,
		unmarshal(t, codec, "Item", `{"id": 1, "tags": ["a"], "id": 2, "tags": ["b", "c"]}`),
		testschema.Item(2, "b", "c"),
	)
	got := unmarshal(t, codec, "User", `{"scores": {"a": 1}, "scores": {"b": 2}}`)
	scores := got.Get(testschema.Field(got, "scores")).Map()
	assert.Equal(t, scores.Len(), 1)
	// The last member of a oneof wins.
	got = unmarshal(t, codec, "User", `{"email": "ada@example.com", "phone": "555-0100"}`)
	assert.False(t, got.Has(testschema.Field(got, "email")))
	assert.Equal(t, got.Get(testschema.Field(got, "phone")).String(), "555-0100")
}

func TestDecodeMalformedMembers(t *testing.T) {
	t.Parallel()
	newCodec := func(warnings *[]error) *Codec {
		return NewCodec(WithWarn(func(err error) {
			*warnings = append(*warnings, err)
		}))
	}
	t.Run("token reader", func(t *testing.T) {
		t.Parallel()
		var warnings []error
		codec := newCodec(&warnings)
		r := newSliceReader(
			Token{Kind: TokenObjectStart},
			Token{Kind: TokenNumber, Text: "1"},
			Token{Kind: TokenName, Text: "id"},
			Token{Kind: TokenNumber, Text: "7"},
			Token{Kind: TokenArrayStart},
			Token{Kind: TokenObjectStart},
			Token{Kind: TokenName, Text: "id"},
			Token{Kind: TokenNumber, Text: "8"},
			Token{Kind: TokenObjectEnd},
			Token{Kind: TokenArrayEnd},
			Token{Kind: TokenBool, Bool: true},
			Token{Kind: TokenName, Text: "tags"},
			Token{Kind: TokenArrayStart},
			Token{Kind: TokenString, Text: "a"},
			Token{Kind: TokenArrayEnd},
			Token{Kind: TokenObjectEnd},
		)
		msg, err := codec.Decode(r, testschema.MessageType("Item"))
		assert.Nil(t, err)
		assertProtoEqual(t, msg.ProtoReflect(), testschema.Item(7, "a"))
		assert.Equal(t, len(warnings), 3)
		for _, warning := range warnings {
			assert.Equal(t, CodeOf(warning), CodeSyntax)
			assert.Match(t, warning.Error(), `pbjson\.test\.v1\.Item: skipping`)
		}
	})
	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var warnings []error
		codec := newCodec(&warnings)
		// Reader tolerates non-string keys, which reach the decoder as
		// numbers where names belong.
		input := `{1: 2, "userId": 7, "scores": {3: 4, "a": 5}}`
		msg, err := codec.Decode(NewReader(strings.NewReader(input)), testschema.MessageType("User"))
		assert.Nil(t, err)
		got := msg.ProtoReflect()
		assert.Equal(t, got.Get(testschema.Field(got, "user_id")).Int(), int64(7))
		scores := got.Get(testschema.Field(got, "scores")).Map()
		assert.Equal(t, scores.Len(), 1)
		assert.Equal(t, len(warnings), 4)
		// Unmarshal sees the whole document and rejects it outright.
		err = codec.Unmarshal([]byte(input), testschema.New("User").Interface())
		assert.Equal(t, CodeOf(err), CodeSyntax)
		assert.Equal(t, len(warnings), 4)
	})
	t.Run("end of input", func(t *testing.T) {
		t.Parallel()
		var warnings []error
		codec := newCodec(&warnings)
		r := newSliceReader(Token{Kind: TokenObjectStart}, Token{Kind: TokenNumber, Text: "1"})
		_, err := codec.Decode(r, testschema.MessageType("Item"))
		assert.Equal(t, CodeOf(err), CodeSyntax)
		assert.Equal(t, len(warnings), 1)
	})
}
