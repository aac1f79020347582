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

package pbjson_test

import (
	"testing"

	"github.com/robertlyson/pbjson"
	"github.com/robertlyson/pbjson/internal/assert"
	"github.com/robertlyson/pbjson/internal/testschema"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/reflect/protoreflect"
)

func benchmarkUser() protoreflect.Message {
	user := testschema.New("User")
	testschema.Set(user, "user_id", int32(42))
	testschema.Set(user, "display_name", "Ada Lovelace")
	testschema.Set(user, "status", protoreflect.EnumNumber(1))
	testschema.Set(user, "primary", testschema.Item(1, "a", "b", "c"))
	for i := int32(0); i < 16; i++ {
		testschema.Append(user, "items", testschema.Item(i, "tag"))
	}
	scores := user.Mutable(testschema.Field(user, "scores")).Map()
	for _, key := range []string{"x", "y", "z"} {
		scores.Set(protoreflect.ValueOfString(key).MapKey(), protoreflect.ValueOfInt64(100))
	}
	return user
}

func BenchmarkMarshal(b *testing.B) {
	user := benchmarkUser().Interface()
	codec := pbjson.NewCodec()
	b.Run("pbjson", func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_, _ = codec.Marshal(user)
			}
		})
	})
	b.Run("protojson", func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_, _ = protojson.Marshal(user)
			}
		})
	})
}

func BenchmarkUnmarshal(b *testing.B) {
	codec := pbjson.NewCodec()
	data, err := codec.Marshal(benchmarkUser().Interface())
	assert.Nil(b, err)
	userType := testschema.MessageType("User")
	b.Run("pbjson", func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_ = codec.Unmarshal(data, userType.New().Interface())
			}
		})
	})
	b.Run("protojson", func(b *testing.B) {
		b.ReportAllocs()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				_ = protojson.Unmarshal(data, userType.New().Interface())
			}
		})
	})
}
