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

// Package grpccodec registers a pbjson.Codec with gRPC, so clients and
// servers can exchange protobuf messages as JSON using the "json" content
// subtype.
package grpccodec

import (
	"github.com/robertlyson/pbjson"
	"google.golang.org/grpc/encoding"
)

// Name is the content subtype the codec is registered under.
const Name = pbjson.CodecName

var _ encoding.Codec = (*pbjson.Codec)(nil)

// Register constructs a pbjson.Codec with the given options and registers it
// with gRPC, replacing any codec already registered as "json". Like
// encoding.RegisterCodec, it should only be called during initialization.
func Register(options ...pbjson.Option) *pbjson.Codec {
	codec := pbjson.NewCodec(options...)
	encoding.RegisterCodec(codec)
	return codec
}
