/*
 * Copyright 2026 Juicedata, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dump

import "github.com/pkg/errors"

// Kind classifies a dump failure into the five-way taxonomy from
// spec.md §7. Nothing in this module branches on the classification;
// callers can type-assert *Error.Kind to branch on it.
type Kind int

const (
	// KindDriverContract marks a violation of the editor's callback
	// grammar (spec.md §4.4) — a bug in the driver, not recoverable.
	KindDriverContract Kind = iota
	// KindIO marks a write failure against the output stream or a
	// scratch file.
	KindIO
	// KindProtocol marks a property block containing a key that
	// cannot be silently dropped. Never occurs in practice: every
	// non-regular property is dropped silently per spec.md §4.1.
	KindProtocol
	// KindResource marks a scratch-file or allocation failure.
	KindResource
	// KindUser marks CLI misuse.
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindDriverContract:
		return "driver-contract"
	case KindIO:
		return "io"
	case KindProtocol:
		return "protocol"
	case KindResource:
		return "resource"
	case KindUser:
		return "user"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with its Kind and is what every
// DumpEditor/DumpWriter/DeltaSink method returns on failure.
type Error struct {
	Kind Kind
	Op   string
	err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.err.Error()
}

func (e *Error) Unwrap() error { return e.err }

// wrapErr builds a *Error, attaching a stack via pkg/errors so the first
// failure in an edit carries enough context to diagnose without retrying
// (spec.md §4.5: no in-editor retry, callers truncate and start over).
func wrapErr(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, err: errors.WithStack(err)}
}

func ioErr(op string, err error) error       { return wrapErr(KindIO, op, err) }
func resourceErr(op string, err error) error { return wrapErr(KindResource, op, err) }

// driverContractViolation panics, per spec.md §7(a): a grammar violation
// is a bug in the driver, not a recoverable error.
func driverContractViolation(msg string) {
	panic(&Error{Kind: KindDriverContract, Op: "editor", err: errors.New(msg)})
}
