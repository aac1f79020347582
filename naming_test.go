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
	"testing"

	"github.com/robertlyson/pbjson/internal/assert"
)

func TestGoCamelCase(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		want string
	}{
		{"user_id", "UserId"},
		{"items_by_id", "ItemsById"},
		{"_hidden", "XHidden"},
		{"field2_name", "Field2Name"},
		{"a__b", "A_B"},
		{"already", "Already"},
		{"HTTPRoute", "HTTPRoute"},
	}
	for _, tt := range tests {
		assert.Equal(t, goCamelCase(tt.name), tt.want, assert.Sprintf("goCamelCase(%q)", tt.name))
	}
}

func TestNamingPolicies(t *testing.T) {
	t.Parallel()
	tests := []struct {
		goName string
		lower  string
		snake  string
		kebab  string
	}{
		{"UserId", "userId", "user_id", "user-id"},
		{"ItemsById", "itemsById", "items_by_id", "items-by-id"},
		{"URLPath", "urlPath", "url_path", "url-path"},
		{"ID", "id", "id", "id"},
		{"XHidden", "xHidden", "x_hidden", "x-hidden"},
		{"Field2Name", "field2Name", "field2_name", "field2-name"},
		{"A_B", "a_B", "a_b", "a-b"},
		{"", "", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, LowerCamelCase(tt.goName), tt.lower, assert.Sprintf("LowerCamelCase(%q)", tt.goName))
		assert.Equal(t, SnakeCase(tt.goName), tt.snake, assert.Sprintf("SnakeCase(%q)", tt.goName))
		assert.Equal(t, KebabCase(tt.goName), tt.kebab, assert.Sprintf("KebabCase(%q)", tt.goName))
	}
}
