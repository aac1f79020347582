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
	"bytes"
	"sync"

	"github.com/goccy/go-json"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

const (
	// Version is the semantic version of the pbjson module.
	Version = "0.3.0"

	// CodecName is the name a Codec registers itself under.
	CodecName = "json"
)

// A Codec converts protobuf messages to and from JSON. It builds the field
// model of each message type the first time it sees the type and reuses it
// afterwards. Codecs are safe for concurrent use.
type Codec struct {
	config     codecConfig
	converters converterFactory
	warn       func(error)
	fieldSets  sync.Map // protoreflect.MessageType -> *FieldSet
}

// NewCodec constructs a Codec. By default, field names are converted with
// LowerCamelCase, unset and default-valued fields are omitted, enums are
// written as numbers, and property names are matched case-sensitively.
func NewCodec(options ...Option) *Codec {
	config := codecConfig{
		NamingPolicy: LowerCamelCase,
		Warn:         defaultWarn,
	}
	for _, opt := range options {
		opt.applyToCodec(&config)
	}
	converters := make(map[protoreflect.FullName]MessageConverter, len(wellKnownMessages)+len(config.MessageConverters))
	wellKnown := newProtojsonConverter()
	for _, name := range wellKnownMessages {
		converters[name] = wellKnown
	}
	for name, converter := range config.MessageConverters {
		converters[name] = converter
	}
	config.MessageConverters = converters
	codec := &Codec{
		config: config,
		warn:   newWarnIfError(config.Warn),
	}
	codec.converters = converterFactory{codec: codec}
	return codec
}

// Name returns CodecName.
func (c *Codec) Name() string { return CodecName }

// Marshal encodes a proto.Message as JSON.
func (c *Codec) Marshal(message any) ([]byte, error) {
	if message == nil {
		return []byte("null"), nil
	}
	protoMessage, ok := message.(proto.Message)
	if !ok {
		return nil, errNotProtobuf(message)
	}
	w := NewWriter()
	if err := c.Encode(w, protoMessage); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Unmarshal resets a proto.Message and decodes JSON into it. A JSON null leaves
// the message empty. Input that isn't well-formed JSON is rejected with
// CodeSyntax before any field is set.
func (c *Codec) Unmarshal(data []byte, message any) error {
	protoMessage, ok := message.(proto.Message)
	if !ok {
		return errNotProtobuf(message)
	}
	proto.Reset(protoMessage)
	if len(data) > 0 {
		if err := validateJSON(data); err != nil {
			return err
		}
	}
	r := NewReader(bytes.NewReader(data))
	if err := c.decodeInto(r, protoMessage.ProtoReflect()); err != nil {
		return wrapIfUncoded(err)
	}
	tok, err := r.Next()
	if err != nil {
		return wrapIfUncoded(err)
	}
	if tok.Kind != TokenEOF {
		return errorf(CodeSyntax, "unexpected %v after top-level value", tok)
	}
	return nil
}

// FieldSet returns the field model of a message type, building and caching it
// on first use. The model is the same for every call with the same type.
func (c *Codec) FieldSet(mt protoreflect.MessageType) (*FieldSet, error) {
	if set, ok := c.fieldSets.Load(mt); ok {
		return set.(*FieldSet), nil //nolint:forcetypeassert
	}
	set, err := buildFieldSet(mt, &c.config, &c.converters)
	if err != nil {
		return nil, err
	}
	// Concurrent first uses may both build; they're interchangeable.
	actual, _ := c.fieldSets.LoadOrStore(mt, set)
	return actual.(*FieldSet), nil //nolint:forcetypeassert
}

var compactBuffers = sync.Pool{
	New: func() any { return &bytes.Buffer{} },
}

// validateJSON checks the separators and structure of a complete document,
// which the streaming Reader leaves unchecked.
func validateJSON(data []byte) error {
	buf := compactBuffers.Get().(*bytes.Buffer) //nolint:forcetypeassert
	defer func() {
		buf.Reset()
		compactBuffers.Put(buf)
	}()
	if err := json.Compact(buf, data); err != nil {
		return errorf(CodeSyntax, "invalid JSON: %w", err)
	}
	return nil
}

func (c *Codec) messageConverter(desc protoreflect.MessageDescriptor) (MessageConverter, bool) {
	converter, ok := c.config.MessageConverters[desc.FullName()]
	return converter, ok
}
