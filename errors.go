// Copyright (c) 2024 redis-hnsw Contributors
//
// Permission is hereby granted, free of charge, to any person
// obtaining a copy of this software and associated documentation
// files (the "Software"), to deal in the Software without
// restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the
// Software is furnished to do so, subject to the following
// conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package hnsw

import "fmt"

// Kind classifies an Error by the short tag a host error reply is expected
// to carry (e.g. a Redis-style "DIMMISMATCH wrong vector length").
type Kind string

const (
	KindBadArg      Kind = "BADARG"
	KindDimMismatch Kind = "DIMMISMATCH"
	KindNotFound    Kind = "NOTFOUND"
	KindDuplicate   Kind = "DUPLICATE"
	KindEmpty       Kind = "EMPTY"
	KindInternal    Kind = "INTERNAL"
)

// Error is the error type every exported Index operation returns on
// failure. The host's command dispatcher is expected to convert it to its
// own reply format using Kind and Error().
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("%s %s", e.Kind, e.Msg) }

// Is lets errors.Is(err, ErrNotFound) (and the other sentinels below) match
// any *Error of the same Kind, not just the exact sentinel value.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func newError(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// Sentinels for the error kinds a caller can check with errors.Is.
var (
	ErrNotFound          = &Error{KindNotFound, "not found"}
	ErrDuplicate         = &Error{KindDuplicate, "name already exists"}
	ErrDimensionMismatch = &Error{KindDimMismatch, "vector dimension mismatch"}
	ErrEmpty             = &Error{KindEmpty, "index has no nodes"}
	ErrBadArg            = &Error{KindBadArg, "malformed argument"}
)
