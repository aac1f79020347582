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
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// A TokenKind identifies the shape of a Token.
type TokenKind uint8

const (
	TokenInvalid TokenKind = iota
	TokenObjectStart
	TokenObjectEnd
	TokenArrayStart
	TokenArrayEnd
	TokenName
	TokenString
	TokenNumber
	TokenBool
	TokenNull
	TokenEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokenObjectStart:
		return "object start"
	case TokenObjectEnd:
		return "object end"
	case TokenArrayStart:
		return "array start"
	case TokenArrayEnd:
		return "array end"
	case TokenName:
		return "property name"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenBool:
		return "bool"
	case TokenNull:
		return "null"
	case TokenEOF:
		return "end of input"
	}
	return "invalid token"
}

// A Token is one lexical element of a JSON document.
type Token struct {
	Kind TokenKind
	// Text is the property name, the unquoted string value, or the number
	// literal exactly as it appeared in the input.
	Text string
	Bool bool
}

func (t Token) String() string {
	switch t.Kind {
	case TokenName, TokenString:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	case TokenNumber:
		return "number " + t.Text
	case TokenBool:
		return strconv.FormatBool(t.Bool)
	}
	return t.Kind.String()
}

// A TokenReader is a pull-based cursor over the tokens of a JSON document.
// Peek returns the next token without consuming it; Next consumes it. At the
// end of the document both return a TokenEOF token and a nil error.
//
// The default implementation is returned by NewReader. Callers with their own
// tokenizer can adapt it to this interface and use Codec.Decode directly.
type TokenReader interface {
	Peek() (Token, error)
	Next() (Token, error)
}

// Reader is the default TokenReader. It tokenizes with goccy/go-json and keeps
// a stack of open brackets to tell property names from string values.
type Reader struct {
	dec     *json.Decoder
	stack   []readerFrame
	peeked  Token
	peekErr error
	hasPeek bool
}

type readerFrame struct {
	object   bool
	wantName bool
}

var _ TokenReader = (*Reader)(nil)

// NewReader constructs a Reader over a single JSON document.
//
// The Reader checks brackets and number literals but not separators: missing
// or doubled commas and colons go unnoticed, and a non-string key surfaces as
// a value where a property name belongs. Invalid UTF-8 and unpaired surrogate
// escapes in strings decode as U+FFFD. Callers holding the whole document can
// validate it first, as Codec.Unmarshal does.
func NewReader(r io.Reader) *Reader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Reader{dec: dec}
}

// Peek implements TokenReader.
func (r *Reader) Peek() (Token, error) {
	if !r.hasPeek {
		r.peeked, r.peekErr = r.read()
		r.hasPeek = true
	}
	return r.peeked, r.peekErr
}

// Next implements TokenReader.
func (r *Reader) Next() (Token, error) {
	tok, err := r.Peek()
	r.peeked, r.peekErr, r.hasPeek = Token{}, nil, false
	return tok, err
}

// Depth reports how many objects and arrays are currently open.
func (r *Reader) Depth() int {
	return len(r.stack)
}

func (r *Reader) read() (Token, error) {
	raw, err := r.dec.Token()
	if err == io.EOF {
		if len(r.stack) > 0 {
			return Token{}, errorf(CodeSyntax, "unexpected end of input inside %d open containers", len(r.stack))
		}
		return Token{Kind: TokenEOF}, nil
	}
	if err != nil {
		return Token{}, NewError(CodeSyntax, err)
	}
	switch value := raw.(type) {
	case json.Delim:
		return r.delim(value)
	case string:
		if top := r.top(); top != nil && top.object && top.wantName {
			top.wantName = false
			return Token{Kind: TokenName, Text: value}, nil
		}
		r.consumedValue()
		return Token{Kind: TokenString, Text: value}, nil
	case json.Number:
		if !isNumberLiteral(string(value)) {
			return Token{}, errorf(CodeSyntax, "invalid number literal %q", string(value))
		}
		r.consumedValue()
		// go-json hands out number literals that alias its read buffer.
		return Token{Kind: TokenNumber, Text: strings.Clone(string(value))}, nil
	case bool:
		r.consumedValue()
		return Token{Kind: TokenBool, Bool: value}, nil
	case nil:
		r.consumedValue()
		return Token{Kind: TokenNull}, nil
	}
	return Token{}, errorf(CodeSyntax, "unexpected token %v (%T)", raw, raw)
}

func (r *Reader) delim(d json.Delim) (Token, error) {
	switch d {
	case '{':
		r.consumedValue()
		r.stack = append(r.stack, readerFrame{object: true, wantName: true})
		return Token{Kind: TokenObjectStart}, nil
	case '[':
		r.consumedValue()
		r.stack = append(r.stack, readerFrame{})
		return Token{Kind: TokenArrayStart}, nil
	case '}':
		if top := r.top(); top == nil || !top.object {
			return Token{}, errorf(CodeSyntax, "unexpected '}'")
		}
		r.stack = r.stack[:len(r.stack)-1]
		return Token{Kind: TokenObjectEnd}, nil
	case ']':
		if top := r.top(); top == nil || top.object {
			return Token{}, errorf(CodeSyntax, "unexpected ']'")
		}
		r.stack = r.stack[:len(r.stack)-1]
		return Token{Kind: TokenArrayEnd}, nil
	}
	return Token{}, errorf(CodeSyntax, "unexpected delimiter %q", rune(d))
}

func (r *Reader) top() *readerFrame {
	if len(r.stack) == 0 {
		return nil
	}
	return &r.stack[len(r.stack)-1]
}

// consumedValue records that a value (or the opening bracket of one) was read,
// so the enclosing object expects a property name next.
func (r *Reader) consumedValue() {
	if top := r.top(); top != nil && top.object {
		top.wantName = true
	}
}

// isNumberLiteral reports whether s matches the JSON number grammar: an
// optional minus sign, an integer part without leading zeros, then an optional
// fraction and exponent.
func isNumberLiteral(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && '1' <= s[i] && s[i] <= '9':
		i = skipDigits(s, i)
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		j := skipDigits(s, i+1)
		if j == i+1 {
			return false
		}
		i = j
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		j := skipDigits(s, i)
		if j == i {
			return false
		}
		i = j
	}
	return i == len(s)
}

func skipDigits(s string, i int) int {
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}
	return i
}

// skipValue consumes one complete value: a scalar, or an object or array with
// everything inside it.
func skipValue(r TokenReader) error {
	if err := requireValue(r); err != nil {
		return err
	}
	return skipTokens(r, 0)
}

// skipContainer consumes the rest of an object or array whose opening token
// has already been read.
func skipContainer(r TokenReader) error {
	return skipTokens(r, 1)
}

func skipTokens(r TokenReader, depth int) error {
	for {
		tok, err := r.Next()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case TokenObjectStart, TokenArrayStart:
			depth++
		case TokenObjectEnd, TokenArrayEnd:
			depth--
		case TokenEOF:
			return errorf(CodeSyntax, "unexpected end of input")
		}
		if depth <= 0 {
			return nil
		}
	}
}

// requireValue checks that the next token starts a value, without consuming
// it. A closing bracket or the end of input in its place is a syntax error.
func requireValue(r TokenReader) error {
	tok, err := r.Peek()
	if err != nil {
		return err
	}
	switch tok.Kind {
	case TokenObjectEnd, TokenArrayEnd, TokenName, TokenEOF, TokenInvalid:
		return errorf(CodeSyntax, "expected a value, got %v", tok)
	}
	return nil
}
