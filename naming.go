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
	"strings"
	"unicode"
	"unicode/utf8"
)

// A NamingPolicy converts a field's Go name, such as "UserId", into the key
// used for it in JSON.
type NamingPolicy func(goName string) string

var (
	// LowerCamelCase lowercases the leading run of capitals: "UserId" becomes
	// "userId" and "URLPath" becomes "urlPath".
	LowerCamelCase NamingPolicy = lowerCamelCase
	// SnakeCase separates words with underscores: "UserId" becomes "user_id".
	SnakeCase NamingPolicy = func(name string) string { return separateWords(name, '_') }
	// KebabCase separates words with hyphens: "UserId" becomes "user-id".
	KebabCase NamingPolicy = func(name string) string { return separateWords(name, '-') }
)

func lowerCamelCase(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	for i := range runes {
		if !unicode.IsUpper(runes[i]) {
			break
		}
		// Keep the last capital of an acronym when it starts the next word.
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

func separateWords(name string, separator rune) string {
	var out strings.Builder
	out.Grow(len(name) + 4)
	runes := []rune(name)
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' {
			if out.Len() > 0 && i+1 < len(runes) {
				last, _ := utf8.DecodeLastRuneInString(out.String())
				if last != separator {
					out.WriteRune(separator)
				}
			}
			continue
		}
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				out.WriteRune(separator)
			}
		}
		out.WriteRune(unicode.ToLower(r))
	}
	return out.String()
}

// goCamelCase returns the Go identifier protoc-gen-go generates for a field
// named name: "user_id" becomes "UserId" and "_hidden" becomes "XHidden".
//
// Adapted from GoCamelCase in google.golang.org/protobuf/internal/strs
// (v1.36.5), which isn't importable. Keep the two in sync.
func goCamelCase(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '.' && i+1 < len(name) && isASCIILower(name[i+1]):
		case c == '.':
			out = append(out, '_')
		case c == '_' && (i == 0 || name[i-1] == '.'):
			out = append(out, 'X')
		case c == '_' && i+1 < len(name) && isASCIILower(name[i+1]):
		case isASCIIDigit(c):
			out = append(out, c)
		default:
			if isASCIILower(c) {
				c -= 'a' - 'A'
			}
			out = append(out, c)
			for i+1 < len(name) && isASCIILower(name[i+1]) {
				i++
				out = append(out, name[i])
			}
		}
	}
	return string(out)
}

func isASCIILower(c byte) bool {
	return 'a' <= c && c <= 'z'
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
