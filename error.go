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
	"errors"
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// An Error pairs a Code with an underlying Go error. Every error returned by a
// Codec can be unwrapped to an *Error with the standard library's errors.As.
type Error struct {
	code Code
	err  error
}

// NewError annotates any Go error with a code.
func NewError(c Code, underlying error) *Error {
	return &Error{code: c, err: underlying}
}

func (e *Error) Error() string {
	text := e.err.Error()
	if text == "" {
		return "pbjson: " + e.code.String()
	}
	return "pbjson: " + e.code.String() + ": " + text
}

// Unwrap implements errors.Wrapper, which allows errors.Is and errors.As
// access to the underlying error.
func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the error's code.
func (e *Error) Code() Code {
	return e.code
}

// CodeOf returns the error's code if it is or wraps a *pbjson.Error, CodeOK
// for nil errors, and CodeUnknown otherwise.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	if pbErr, ok := asError(err); ok {
		return pbErr.Code()
	}
	return CodeUnknown
}

// errorf calls fmt.Errorf with the supplied template and arguments, then wraps
// the resulting error.
func errorf(c Code, template string, args ...any) *Error {
	return NewError(c, fmt.Errorf(template, args...))
}

// asError uses errors.As to unwrap any error and look for a *pbjson.Error.
func asError(err error) (*Error, bool) {
	var pbErr *Error
	ok := errors.As(err, &pbErr)
	return pbErr, ok
}

// wrapIfUncoded ensures that all errors leaving the package carry a code.
// Errors from the tokenizer are the only uncoded errors we see, so they're
// reported as syntax errors.
func wrapIfUncoded(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := asError(err); ok {
		return err
	}
	return NewError(CodeSyntax, err)
}

func errNotProtobuf(m any) *Error {
	return errorf(CodeNotMessage, "%T doesn't implement proto.Message", m)
}

func errUnexpectedToken(want string, got Token, field protoreflect.FullName) *Error {
	return errorf(CodeTypeMismatch, "%s: expected %s, got %v", field, want, got)
}
