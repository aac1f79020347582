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
)

// A Code classifies the errors returned by a Codec. Only the codes enumerated
// below are produced.
type Code uint32

const (
	CodeOK              Code = 0 // success
	CodeUnknown         Code = 1 // error not produced by this package
	CodeSyntax          Code = 2 // input isn't well-formed JSON, or ends early
	CodeTypeMismatch    Code = 3 // JSON value has the wrong shape for the field or message
	CodeInvalidValue    Code = 4 // JSON value has the right shape but can't be converted
	CodeUnsupportedKind Code = 5 // schema uses a field kind the codec can't convert
	CodeNotMessage      Code = 6 // argument doesn't implement proto.Message

	minCode Code = CodeOK
	maxCode Code = CodeNotMessage
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "OK"
	case CodeUnknown:
		return "Unknown"
	case CodeSyntax:
		return "Syntax"
	case CodeTypeMismatch:
		return "TypeMismatch"
	case CodeInvalidValue:
		return "InvalidValue"
	case CodeUnsupportedKind:
		return "UnsupportedKind"
	case CodeNotMessage:
		return "NotMessage"
	}
	return fmt.Sprintf("Code(%d)", c)
}
