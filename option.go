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
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// An Option configures a Codec.
type Option interface {
	applyToCodec(*codecConfig)
}

type codecConfig struct {
	NamingPolicy      NamingPolicy
	SchemaNames       bool
	CaseInsensitive   bool
	Omission          Omission
	EnumNames         bool
	MessageConverters map[protoreflect.FullName]MessageConverter
	Warn              func(error)
}

// An Omission controls whether the encoder writes fields that are unset or
// hold their default value.
//
// Only two behaviors are distinguished: OmitNever writes every field, using
// null for fields that are unset, and every other value omits unset and
// default-valued fields.
type Omission uint8

const (
	// OmitWhenWritingDefault skips unset fields and fields equal to their
	// default (zero scalars, empty lists and maps). It's the default.
	OmitWhenWritingDefault Omission = iota
	// OmitNever writes every field. Unset fields with presence are written as
	// null.
	OmitNever
	// OmitWhenWritingNull behaves exactly like OmitWhenWritingDefault.
	OmitWhenWritingNull
)

func (o Omission) String() string {
	switch o {
	case OmitWhenWritingDefault:
		return "default"
	case OmitNever:
		return "never"
	case OmitWhenWritingNull:
		return "null"
	}
	return fmt.Sprintf("Omission(%d)", o)
}

// UnmarshalText implements encoding.TextUnmarshaler. It accepts the strings
// produced by String.
func (o *Omission) UnmarshalText(b []byte) error {
	switch string(b) {
	case "default":
		*o = OmitWhenWritingDefault
	case "never":
		*o = OmitNever
	case "null":
		*o = OmitWhenWritingNull
	default:
		return fmt.Errorf("invalid omission %q", string(b))
	}
	return nil
}

func (o Omission) omitsDefaults() bool {
	return o != OmitNever
}

type namingPolicyOption struct {
	policy NamingPolicy
}

// WithNamingPolicy sets the function applied to each field's Go name (for
// example "UserId") to produce its JSON key. The default is LowerCamelCase; a
// nil policy uses Go names unchanged. The policy is ignored when WithSchemaNames
// is enabled.
//
// Policies must map distinct Go names to distinct keys. If two fields end up
// with the same key, only the first one declared can be decoded.
func WithNamingPolicy(policy NamingPolicy) Option {
	return &namingPolicyOption{policy}
}

func (o *namingPolicyOption) applyToCodec(cfg *codecConfig) {
	cfg.NamingPolicy = o.policy
}

type schemaNamesOption struct {
	enabled bool
}

// WithSchemaNames uses the JSON names declared by the schema (the lowerCamelCase
// form of the field name, or the json_name option) instead of applying a
// naming policy.
func WithSchemaNames(enabled bool) Option {
	return &schemaNamesOption{enabled}
}

func (o *schemaNamesOption) applyToCodec(cfg *codecConfig) {
	cfg.SchemaNames = o.enabled
}

type caseInsensitiveOption struct {
	enabled bool
}

// WithCaseInsensitive makes decoding match property names to fields without
// regard to case. Exact matches are still preferred.
func WithCaseInsensitive(enabled bool) Option {
	return &caseInsensitiveOption{enabled}
}

func (o *caseInsensitiveOption) applyToCodec(cfg *codecConfig) {
	cfg.CaseInsensitive = o.enabled
}

type omissionOption struct {
	omission Omission
}

// WithOmission sets the encoder's policy for unset and default-valued fields.
func WithOmission(omission Omission) Option {
	return &omissionOption{omission}
}

func (o *omissionOption) applyToCodec(cfg *codecConfig) {
	cfg.Omission = o.omission
}

type enumNamesOption struct {
	enabled bool
}

// WithEnumNames writes enum values as their names rather than their numbers.
// Values without a name are still written as numbers. Decoding always accepts
// both forms.
func WithEnumNames(enabled bool) Option {
	return &enumNamesOption{enabled}
}

func (o *enumNamesOption) applyToCodec(cfg *codecConfig) {
	cfg.EnumNames = o.enabled
}

type messageConverterOption struct {
	name      protoreflect.FullName
	converter MessageConverter
}

// WithMessageConverter replaces the conversion of every message with the given
// full name, wherever it appears. Well-known types such as
// google.protobuf.Timestamp are registered this way by default and can be
// overridden.
func WithMessageConverter(name protoreflect.FullName, converter MessageConverter) Option {
	return &messageConverterOption{name: name, converter: converter}
}

func (o *messageConverterOption) applyToCodec(cfg *codecConfig) {
	if cfg.MessageConverters == nil {
		cfg.MessageConverters = make(map[protoreflect.FullName]MessageConverter)
	}
	cfg.MessageConverters[o.name] = o.converter
}

type warnOption struct {
	warn func(error)
}

// WithWarn sets the function used to report input the decoder skipped rather
// than rejected, such as a number where a property name belongs. By default,
// warnings are written with the standard library's log package.
func WithWarn(warn func(error)) Option {
	return &warnOption{warn}
}

func (o *warnOption) applyToCodec(cfg *codecConfig) {
	cfg.Warn = o.warn
}
