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
	"reflect"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/dynamicpb"
)

// A ValueType is the concrete type of a field's values. For lists it describes
// the elements and for maps it describes the map values.
type ValueType struct {
	Kind protoreflect.Kind
	// GoType is the Go type that holds the value in generated code, or the
	// dynamicpb type for descriptors without generated code.
	GoType reflect.Type
	// Enum is set for enum values.
	Enum protoreflect.EnumType
	// Message is set for message values.
	Message protoreflect.MessageType
	// WellKnown marks messages from google/protobuf with a special JSON form.
	WellKnown bool
}

var scalarGoTypes = map[protoreflect.Kind]reflect.Type{
	protoreflect.DoubleKind:   reflect.TypeOf(float64(0)),
	protoreflect.FloatKind:    reflect.TypeOf(float32(0)),
	protoreflect.Int32Kind:    reflect.TypeOf(int32(0)),
	protoreflect.Sint32Kind:   reflect.TypeOf(int32(0)),
	protoreflect.Sfixed32Kind: reflect.TypeOf(int32(0)),
	protoreflect.Int64Kind:    reflect.TypeOf(int64(0)),
	protoreflect.Sint64Kind:   reflect.TypeOf(int64(0)),
	protoreflect.Sfixed64Kind: reflect.TypeOf(int64(0)),
	protoreflect.Uint32Kind:   reflect.TypeOf(uint32(0)),
	protoreflect.Fixed32Kind:  reflect.TypeOf(uint32(0)),
	protoreflect.Uint64Kind:   reflect.TypeOf(uint64(0)),
	protoreflect.Fixed64Kind:  reflect.TypeOf(uint64(0)),
	protoreflect.BoolKind:     reflect.TypeOf(false),
	protoreflect.StringKind:   reflect.TypeOf(""),
	protoreflect.BytesKind:    reflect.TypeOf([]byte(nil)),
}

// resolveValueType maps a field to the type of its values. Enum and message
// types come from the host message, so generated code gets generated types and
// dynamic messages get dynamic ones.
func resolveValueType(fd protoreflect.FieldDescriptor, host protoreflect.Message) (ValueType, error) {
	vd := fd
	if fd.IsMap() {
		vd = fd.MapValue()
	}
	kind := vd.Kind()
	if goType, ok := scalarGoTypes[kind]; ok {
		return ValueType{Kind: kind, GoType: goType}, nil
	}
	switch kind {
	case protoreflect.EnumKind:
		enumType := resolveEnumType(vd.Enum())
		return ValueType{
			Kind:   kind,
			GoType: reflect.TypeOf(enumType.New(0)),
			Enum:   enumType,
		}, nil
	case protoreflect.MessageKind:
		messageType := resolveMessageType(fd, host)
		return ValueType{
			Kind:      kind,
			GoType:    reflect.TypeOf(messageType.Zero().Interface()),
			Message:   messageType,
			WellKnown: isWellKnown(vd.Message().FullName()),
		}, nil
	}
	return ValueType{}, errorf(
		CodeUnsupportedKind,
		"%s: unsupported field kind %v",
		fd.FullName(), kind,
	)
}

func resolveEnumType(ed protoreflect.EnumDescriptor) protoreflect.EnumType {
	if enumType, err := protoregistry.GlobalTypes.FindEnumByName(ed.FullName()); err == nil {
		// A registered enum with the same name but a different descriptor
		// belongs to some other schema.
		if enumType.Descriptor() == ed {
			return enumType
		}
	}
	return dynamicpb.NewEnumType(ed)
}

func resolveMessageType(fd protoreflect.FieldDescriptor, host protoreflect.Message) protoreflect.MessageType {
	value := host.NewField(fd)
	switch {
	case fd.IsMap():
		return value.Map().NewValue().Message().Type()
	case fd.IsList():
		return value.List().NewElement().Message().Type()
	default:
		return value.Message().Type()
	}
}

// readsNull reports whether JSON null is a value of this type rather than the
// absence of one.
func (vt *ValueType) readsNull() bool {
	switch {
	case vt.Message != nil:
		return vt.Message.Descriptor().FullName() == wellKnownValue
	case vt.Enum != nil:
		return vt.Enum.Descriptor().FullName() == wellKnownNullValue
	}
	return false
}
