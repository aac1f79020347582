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
	"log"
	"os"
	"strings"

	"github.com/robertlyson/pbjson"
	"github.com/robertlyson/pbjson/internal/testschema"
	"google.golang.org/protobuf/reflect/protoreflect"
)

func ExampleCodec_Marshal() {
	logger := log.New(os.Stdout, "" /* prefix */, 0 /* flags */)
	codec := pbjson.NewCodec(
		pbjson.WithNamingPolicy(pbjson.SnakeCase),
		pbjson.WithEnumNames(true),
	)
	user := testschema.New("User")
	testschema.Set(user, "user_id", int32(42))
	testschema.Set(user, "status", protoreflect.EnumNumber(1))
	testschema.Set(user, "primary", testschema.Item(7, "a", "b"))
	data, err := codec.Marshal(user.Interface())
	if err != nil {
		logger.Print("Error: ", err)
		return
	}
	logger.Print(string(data))

	// Output:
	// {"user_id":42,"status":"STATUS_ACTIVE","primary":{"id":7,"tags":["a","b"]}}
}

func ExampleCodec_Unmarshal() {
	logger := log.New(os.Stdout, "" /* prefix */, 0 /* flags */)
	codec := pbjson.NewCodec(pbjson.WithCaseInsensitive(true))
	item := testschema.New("Item")
	// Unknown keys are ignored.
	err := codec.Unmarshal([]byte(`{"ID": 7, "tags": ["a", "b"], "extra": true}`), item.Interface())
	if err != nil {
		logger.Print("Error: ", err)
		return
	}
	logger.Print("id: ", item.Get(testschema.Field(item, "id")).Int())

	err = codec.Unmarshal([]byte(`["not", "an", "object"]`), item.Interface())
	logger.Print("code: ", pbjson.CodeOf(err))

	// Output:
	// id: 7
	// code: TypeMismatch
}

func ExampleCodec_Decode() {
	logger := log.New(os.Stdout, "" /* prefix */, 0 /* flags */)
	codec := pbjson.NewCodec(pbjson.WithOmission(pbjson.OmitNever))
	// Decode reads one value from a TokenReader, so messages can be pulled
	// out of a larger document.
	r := pbjson.NewReader(strings.NewReader(`[{"id": 1}, null]`))
	if _, err := r.Next(); err != nil {
		logger.Print("Error: ", err)
		return
	}
	w := pbjson.NewWriter()
	for i := 0; i < 2; i++ {
		msg, err := codec.Decode(r, testschema.MessageType("Item"))
		if err != nil {
			logger.Print("Error: ", err)
			return
		}
		w.Reset()
		if err := codec.Encode(w, msg); err != nil {
			logger.Print("Error: ", err)
			return
		}
		logger.Print(string(w.Bytes()))
	}

	// Output:
	// {"id":1,"tags":[]}
	// null
}
