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

// Package pbjson converts protobuf messages to and from JSON using only their
// descriptors. There's no per-message mapping code: the first time a Codec
// sees a message type, it builds a field model from the type's descriptor
// (each field's JSON key, value type and converter) and then drives both
// decoding and encoding from that model.
//
// The JSON form is configurable. Keys come from a NamingPolicy applied to the
// Go field name (LowerCamelCase by default) or from the schema's own JSON
// names; decoding can match keys case-insensitively; and the encoder can
// either omit unset and default fields or write every field, using null for
// unset ones. Unknown keys are ignored when decoding.
//
// Well-known types such as google.protobuf.Timestamp use their canonical
// protobuf JSON forms, and any message type can be given a custom form with
// WithMessageConverter.
//
// A Codec's Name, Marshal and Unmarshal methods match the codec interfaces of
// common RPC frameworks. Package grpccodec registers one with gRPC.
package pbjson
