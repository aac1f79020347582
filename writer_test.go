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
	"math"
	"testing"

	"github.com/robertlyson/pbjson/internal/assert"
)

func TestWriter(t *testing.T) {
	t.Parallel()
	t.Run("document", func(t *testing.T) {
		t.Parallel()
		w := NewWriter()
		w.StartObject()
		w.Name("a")
		w.StartArray()
		w.Int(-1)
		w.Uint(math.MaxUint64)
		w.Float(1.5, 64)
		w.Float(float64(float32(0.1)), 32)
		w.Float(math.NaN(), 64)
		w.Float(math.Inf(-1), 32)
		w.Bool(true)
		w.Null()
		w.String(`<&> "quoted"`)
		w.EndArray()
		w.Name("b")
		w.Raw([]byte(`{ "c" : [1, 2] }`))
		w.Name("")
		w.Number("1e3")
		w.EndObject()
		assert.Nil(t, w.Err())
		assert.Equal(
			t,
			string(w.Bytes()),
			`{"a":[-1,18446744073709551615,1.5,0.1,"NaN","-Infinity",true,null,"<&> \"quoted\""],"b":{"c":[1,2]},"":1e3}`,
		)
	})
	t.Run("write to", func(t *testing.T) {
		t.Parallel()
		w := NewWriter()
		w.StartArray()
		w.EndArray()
		var out bytes.Buffer
		n, err := w.WriteTo(&out)
		assert.Nil(t, err)
		assert.Equal(t, n, int64(2))
		assert.Equal(t, out.String(), "[]")
	})
	t.Run("reset", func(t *testing.T) {
		t.Parallel()
		w := NewWriter()
		w.Name("oops")
		assert.NotNil(t, w.Err())
		w.Reset()
		assert.Nil(t, w.Err())
		w.String("ok")
		assert.Equal(t, string(w.Bytes()), `"ok"`)
	})
	misuse := []struct {
		name  string
		write func(*Writer)
	}{
		{"name outside object", func(w *Writer) { w.Name("a") }},
		{"two names", func(w *Writer) { w.StartObject(); w.Name("a"); w.Name("b") }},
		{"value without name", func(w *Writer) { w.StartObject(); w.Int(1) }},
		{"two top-level values", func(w *Writer) { w.Null(); w.Null() }},
		{"wrong closer", func(w *Writer) { w.StartObject(); w.EndArray() }},
		{"close after name", func(w *Writer) { w.StartObject(); w.Name("a"); w.EndObject() }},
		{"close at top level", func(w *Writer) { w.EndObject() }},
		{"invalid raw", func(w *Writer) { w.Raw([]byte("{ nope")) }},
		{"invalid utf-8 string", func(w *Writer) { w.String("a\xffb") }},
		{"invalid utf-8 name", func(w *Writer) { w.StartObject(); w.Name("\xed\xa0\x80") }},
	}
	for _, tt := range misuse {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := NewWriter()
			tt.write(w)
			assert.Equal(t, CodeOf(w.Err()), CodeInvalidValue)
			// Errors are sticky.
			before := string(w.Bytes())
			w.StartArray()
			assert.Equal(t, string(w.Bytes()), before)
			_, err := w.WriteTo(&bytes.Buffer{})
			assert.NotNil(t, err)
		})
	}
}
