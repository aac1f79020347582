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

// Package testschema builds the descriptors used by pbjson's tests at runtime,
// so tests don't depend on generated code. Messages are created with dynamicpb.
//
// The schema, in protobuf syntax:
//
//	syntax = "proto3";
//	package pbjson.test.v1;
//
//	enum Status {
//	  STATUS_UNSPECIFIED = 0;
//	  STATUS_ACTIVE = 1;
//	  STATUS_BANNED = 2;
//	}
//
//	message Item {
//	  int32 id = 1;
//	  repeated string tags = 2;
//	}
//
//	message User {
//	  int32 user_id = 1;
//	  string display_name = 2;
//	  optional string nickname = 3;
//	  Status status = 4;
//	  repeated Status history = 5;
//	  map<string, int64> scores = 6;
//	  Item primary = 7;
//	  repeated Item items = 8;
//	  oneof contact {
//	    string email = 9;
//	    string phone = 10;
//	  }
//	  bytes avatar = 11;
//	  double balance = 12;
//	  float ratio = 13;
//	  bool active = 14;
//	  uint64 visits = 15;
//	  sint32 delta = 16;
//	  fixed64 checksum = 17;
//	  google.protobuf.Timestamp created_at = 18;
//	  google.protobuf.Value extra = 19;
//	  User manager = 20;
//	  string legacy_code = 21 [json_name = "legacyID"];
//	  map<int32, Item> items_by_id = 22;
//	  map<bool, string> flags = 23;
//	}
//
// and, in a proto2 file, a message with a group field, which pbjson doesn't
// support:
//
//	message Legacy {
//	  optional group Payload = 1 {
//	    optional int32 x = 2;
//	  }
//	}
package testschema

import (
	"fmt"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
	_ "google.golang.org/protobuf/types/known/structpb"    // registers struct.proto
	_ "google.golang.org/protobuf/types/known/timestamppb" // registers timestamp.proto
)

const pkg = "pbjson.test.v1"

var (
	filesOnce sync.Once
	files     *protoregistry.Files
	filesErr  error
)

// Files returns a registry holding the test schema.
func Files() *protoregistry.Files {
	filesOnce.Do(func() {
		files, filesErr = buildFiles()
	})
	if filesErr != nil {
		panic(filesErr)
	}
	return files
}

// MessageType returns a dynamic message type from the schema, given its short
// name ("User", "Item" or "Legacy").
func MessageType(name string) protoreflect.MessageType {
	desc, err := Files().FindDescriptorByName(protoreflect.FullName(pkg + "." + name))
	if err != nil {
		panic(err)
	}
	md, ok := desc.(protoreflect.MessageDescriptor)
	if !ok {
		panic(fmt.Sprintf("%s isn't a message", name))
	}
	return dynamicpb.NewMessageType(md)
}

// New returns an empty dynamic message of the named type.
func New(name string) protoreflect.Message {
	return MessageType(name).New()
}

// Field returns a field descriptor by its proto name.
func Field(msg protoreflect.Message, name string) protoreflect.FieldDescriptor {
	fd := msg.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		panic(fmt.Sprintf("%s has no field %q", msg.Descriptor().FullName(), name))
	}
	return fd
}

// Set sets a singular field by its proto name. Values are converted with
// protoreflect.ValueOf, so pass int32 for int32 fields and so on.
func Set(msg protoreflect.Message, name string, value any) protoreflect.Message {
	fd := Field(msg, name)
	if v, ok := value.(protoreflect.Message); ok {
		msg.Set(fd, protoreflect.ValueOfMessage(v))
		return msg
	}
	msg.Set(fd, protoreflect.ValueOf(value))
	return msg
}

// Append appends scalar values, or messages, to a list field.
func Append(msg protoreflect.Message, name string, values ...any) protoreflect.Message {
	list := msg.Mutable(Field(msg, name)).List()
	for _, value := range values {
		if v, ok := value.(protoreflect.Message); ok {
			list.Append(protoreflect.ValueOfMessage(v))
			continue
		}
		list.Append(protoreflect.ValueOf(value))
	}
	return msg
}

// Item returns {id: id, tags: tags}.
func Item(id int32, tags ...string) protoreflect.Message {
	item := Set(New("Item"), "id", id)
	values := make([]any, len(tags))
	for i, tag := range tags {
		values[i] = tag
	}
	return Append(item, "tags", values...)
}

func buildFiles() (*protoregistry.Files, error) {
	registry := new(protoregistry.Files)
	for _, fdp := range []*descriptorpb.FileDescriptorProto{userFile(), legacyFile()} {
		file, err := protodesc.NewFile(fdp, protoregistry.GlobalFiles)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", fdp.GetName(), err)
		}
		if err := registry.RegisterFile(file); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func userFile() *descriptorpb.FileDescriptorProto {
	const (
		optional = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
		repeated = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
	)
	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String("pbjson/test/v1/user.proto"),
		Package:    proto.String(pkg),
		Syntax:     proto.String("proto3"),
		Dependency: []string{"google/protobuf/timestamp.proto", "google/protobuf/struct.proto"},
		EnumType: []*descriptorpb.EnumDescriptorProto{{
			Name: proto.String("Status"),
			Value: []*descriptorpb.EnumValueDescriptorProto{
				{Name: proto.String("STATUS_UNSPECIFIED"), Number: proto.Int32(0)},
				{Name: proto.String("STATUS_ACTIVE"), Number: proto.Int32(1)},
				{Name: proto.String("STATUS_BANNED"), Number: proto.Int32(2)},
			},
		}},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Item"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalar("id", 1, optional, descriptorpb.FieldDescriptorProto_TYPE_INT32),
					scalar("tags", 2, repeated, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				},
			},
			{
				Name: proto.String("User"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalar("user_id", 1, optional, descriptorpb.FieldDescriptorProto_TYPE_INT32),
					scalar("display_name", 2, optional, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					inOneof(proto3Optional(scalar("nickname", 3, optional, descriptorpb.FieldDescriptorProto_TYPE_STRING)), 1),
					named("status", 4, optional, descriptorpb.FieldDescriptorProto_TYPE_ENUM, "."+pkg+".Status"),
					named("history", 5, repeated, descriptorpb.FieldDescriptorProto_TYPE_ENUM, "."+pkg+".Status"),
					named("scores", 6, repeated, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, "."+pkg+".User.ScoresEntry"),
					named("primary", 7, optional, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, "."+pkg+".Item"),
					named("items", 8, repeated, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, "."+pkg+".Item"),
					inOneof(scalar("email", 9, optional, descriptorpb.FieldDescriptorProto_TYPE_STRING), 0),
					inOneof(scalar("phone", 10, optional, descriptorpb.FieldDescriptorProto_TYPE_STRING), 0),
					scalar("avatar", 11, optional, descriptorpb.FieldDescriptorProto_TYPE_BYTES),
					scalar("balance", 12, optional, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE),
					scalar("ratio", 13, optional, descriptorpb.FieldDescriptorProto_TYPE_FLOAT),
					scalar("active", 14, optional, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
					scalar("visits", 15, optional, descriptorpb.FieldDescriptorProto_TYPE_UINT64),
					scalar("delta", 16, optional, descriptorpb.FieldDescriptorProto_TYPE_SINT32),
					scalar("checksum", 17, optional, descriptorpb.FieldDescriptorProto_TYPE_FIXED64),
					named("created_at", 18, optional, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.Timestamp"),
					named("extra", 19, optional, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, ".google.protobuf.Value"),
					named("manager", 20, optional, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, "."+pkg+".User"),
					withJSONName(scalar("legacy_code", 21, optional, descriptorpb.FieldDescriptorProto_TYPE_STRING), "legacyID"),
					named("items_by_id", 22, repeated, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, "."+pkg+".User.ItemsByIdEntry"),
					named("flags", 23, repeated, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, "."+pkg+".User.FlagsEntry"),
				},
				NestedType: []*descriptorpb.DescriptorProto{
					mapEntry("ScoresEntry",
						scalar("key", 1, optional, descriptorpb.FieldDescriptorProto_TYPE_STRING),
						scalar("value", 2, optional, descriptorpb.FieldDescriptorProto_TYPE_INT64),
					),
					mapEntry("ItemsByIdEntry",
						scalar("key", 1, optional, descriptorpb.FieldDescriptorProto_TYPE_INT32),
						named("value", 2, optional, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, "."+pkg+".Item"),
					),
					mapEntry("FlagsEntry",
						scalar("key", 1, optional, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
						scalar("value", 2, optional, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					),
				},
				OneofDecl: []*descriptorpb.OneofDescriptorProto{
					{Name: proto.String("contact")},
					{Name: proto.String("_nickname")},
				},
			},
		},
	}
}

func legacyFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("pbjson/test/v1/legacy.proto"),
		Package: proto.String(pkg),
		Syntax:  proto.String("proto2"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: proto.String("Legacy"),
			Field: []*descriptorpb.FieldDescriptorProto{
				named("payload", 1, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL,
					descriptorpb.FieldDescriptorProto_TYPE_GROUP, "."+pkg+".Legacy.Payload"),
			},
			NestedType: []*descriptorpb.DescriptorProto{{
				Name: proto.String("Payload"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalar("x", 2, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				},
			}},
		}},
	}
}

func scalar(
	name string,
	number int32,
	label descriptorpb.FieldDescriptorProto_Label,
	typ descriptorpb.FieldDescriptorProto_Type,
) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  label.Enum(),
		Type:   typ.Enum(),
	}
}

func named(
	name string,
	number int32,
	label descriptorpb.FieldDescriptorProto_Label,
	typ descriptorpb.FieldDescriptorProto_Type,
	typeName string,
) *descriptorpb.FieldDescriptorProto {
	field := scalar(name, number, label, typ)
	field.TypeName = proto.String(typeName)
	return field
}

func inOneof(field *descriptorpb.FieldDescriptorProto, index int32) *descriptorpb.FieldDescriptorProto {
	field.OneofIndex = proto.Int32(index)
	return field
}

func proto3Optional(field *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	field.Proto3Optional = proto.Bool(true)
	return field
}

func withJSONName(field *descriptorpb.FieldDescriptorProto, jsonName string) *descriptorpb.FieldDescriptorProto {
	field.JsonName = proto.String(jsonName)
	return field
}

func mapEntry(name string, key, value *descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:    proto.String(name),
		Field:   []*descriptorpb.FieldDescriptorProto{key, value},
		Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
	}
}
