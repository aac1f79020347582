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

package grpccodec_test

import (
	"testing"

	"github.com/robertlyson/pbjson"
	"github.com/robertlyson/pbjson/grpccodec"
	"github.com/robertlyson/pbjson/internal/assert"
	"github.com/robertlyson/pbjson/internal/testschema"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	codec := grpccodec.Register(pbjson.WithNamingPolicy(pbjson.SnakeCase))
	registered := encoding.GetCodec(grpccodec.Name)
	assert.NotNil(t, registered)
	assert.Equal(t, registered.Name(), "json")
	assert.True(t, registered == encoding.Codec(codec))

	want := testschema.Set(testschema.New("User"), "user_id", int32(9))
	data, err := registered.Marshal(want.Interface())
	assert.Nil(t, err)
	assert.Equal(t, string(data), `{"user_id":9}`)
	got := testschema.New("User")
	assert.Nil(t, registered.Unmarshal(data, got.Interface()))
	assert.True(t, proto.Equal(got.Interface(), want.Interface()))

	value := &structpb.Value{}
	assert.Nil(t, registered.Unmarshal([]byte(`[1, "a"]`), value))
	assert.Equal(t, len(value.GetListValue().GetValues()), 2)

	_, err = registered.Marshal(struct{}{})
	assert.Equal(t, pbjson.CodeOf(err), pbjson.CodeNotMessage)
}
