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
	"bytes"
	"errors"
	"io"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// A Writer emits a JSON document one token at a time, inserting commas and
// colons itself. Misuse (closing the wrong container, a value where a name is
// required) is recorded and reported by Err; later calls are ignored.
type Writer struct {
	buf       []byte
	stack     []writerFrame
	afterName bool
	err       error
}

type writerFrame struct {
	object bool
	count  int
}

// NewWriter constructs an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the document written so far. The slice aliases the Writer's
// buffer until the next call to Reset.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// WriteTo implements io.WriterTo.
func (w *Writer) WriteTo(dst io.Writer) (int64, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := dst.Write(w.buf)
	return int64(n), err
}

// Err returns the first error encountered while writing.
func (w *Writer) Err() error {
	return w.err
}

// Reset discards the written document and any recorded error, retaining the
// allocated buffer.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.stack = w.stack[:0]
	w.afterName = false
	w.err = nil
}

func (w *Writer) StartObject() {
	if w.beginValue() {
		w.buf = append(w.buf, '{')
		w.stack = append(w.stack, writerFrame{object: true})
	}
}

func (w *Writer) EndObject() {
	w.end(true, '}')
}

func (w *Writer) StartArray() {
	if w.beginValue() {
		w.buf = append(w.buf, '[')
		w.stack = append(w.stack, writerFrame{})
	}
}

func (w *Writer) EndArray() {
	w.end(false, ']')
}

// Name writes a property name. It must be followed by exactly one value.
func (w *Writer) Name(name string) {
	if w.err != nil {
		return
	}
	top := w.top()
	if top == nil || !top.object || w.afterName {
		w.fail(errors.New("property name outside of an object"))
		return
	}
	if top.count > 0 {
		w.buf = append(w.buf, ',')
	}
	top.count++
	w.appendQuoted(name)
	w.buf = append(w.buf, ':')
	w.afterName = true
}

// String writes a quoted string value. Strings that aren't valid UTF-8 are
// an error, like property names passed to Name.
func (w *Writer) String(s string) {
	if w.beginValue() {
		w.appendQuoted(s)
	}
}

func (w *Writer) Int(n int64) {
	if w.beginValue() {
		w.buf = strconv.AppendInt(w.buf, n, 10)
	}
}

func (w *Writer) Uint(n uint64) {
	if w.beginValue() {
		w.buf = strconv.AppendUint(w.buf, n, 10)
	}
}

// Float writes f with the shortest representation that round-trips at the
// given bit size (32 or 64). NaN and the infinities are written as the
// strings "NaN", "Infinity" and "-Infinity".
func (w *Writer) Float(f float64, bitSize int) {
	switch {
	case math.IsNaN(f):
		w.String("NaN")
		return
	case math.IsInf(f, 1):
		w.String("Infinity")
		return
	case math.IsInf(f, -1):
		w.String("-Infinity")
		return
	}
	var v any = f
	if bitSize == 32 {
		v = float32(f)
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.fail(err)
		return
	}
	w.Raw(data)
}

// Number writes a number literal verbatim.
func (w *Writer) Number(literal string) {
	if w.beginValue() {
		w.buf = append(w.buf, literal...)
	}
}

func (w *Writer) Bool(b bool) {
	if w.beginValue() {
		w.buf = strconv.AppendBool(w.buf, b)
	}
}

func (w *Writer) Null() {
	if w.beginValue() {
		w.buf = append(w.buf, "null"...)
	}
}

// Raw writes an already-encoded JSON value, which is compacted first.
func (w *Writer) Raw(value []byte) {
	if !w.beginValue() {
		return
	}
	if !needsCompact(value) {
		w.buf = append(w.buf, value...)
		return
	}
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, value); err != nil {
		w.fail(err)
		return
	}
	w.buf = append(w.buf, compacted.Bytes()...)
}

// beginValue writes the separator preceding a value and reports whether the
// value may be written.
func (w *Writer) beginValue() bool {
	if w.err != nil {
		return false
	}
	if w.afterName {
		w.afterName = false
		return true
	}
	top := w.top()
	if top == nil {
		if len(w.buf) > 0 {
			w.fail(errors.New("more than one top-level value"))
			return false
		}
		return true
	}
	if top.object {
		w.fail(errors.New("value without a property name"))
		return false
	}
	if top.count > 0 {
		w.buf = append(w.buf, ',')
	}
	top.count++
	return true
}

func (w *Writer) end(object bool, delim byte) {
	if w.err != nil {
		return
	}
	top := w.top()
	if top == nil || top.object != object || w.afterName {
		w.fail(errors.New("unbalanced " + string(delim)))
		return
	}
	w.stack = w.stack[:len(w.stack)-1]
	w.buf = append(w.buf, delim)
}

func (w *Writer) top() *writerFrame {
	if len(w.stack) == 0 {
		return nil
	}
	return &w.stack[len(w.stack)-1]
}

func (w *Writer) appendQuoted(s string) {
	if !utf8.ValidString(s) {
		w.fail(fmt.Errorf("invalid UTF-8 in string %q", s))
		return
	}
	data, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		w.fail(err)
		return
	}
	w.buf = append(w.buf, data...)
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = errorf(CodeInvalidValue, "write JSON: %w", err)
	}
}

func needsCompact(value []byte) bool {
	for _, b := range value {
		switch b {
		case ' ', '\t', '\n', '\r':
			return true
		}
	}
	return false
}
