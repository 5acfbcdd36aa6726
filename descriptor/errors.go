/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package descriptor

import (
	"errors"
	"fmt"
)

// Sentinel errors for descriptor operations.
var (
	// ErrNotAModule indicates a directory has no descriptor marker file.
	ErrNotAModule = errors.New("not a native module")

	// ErrMalformedMetadata indicates package.json is missing or unparsable.
	ErrMalformedMetadata = errors.New("malformed package metadata")

	// ErrMalformedDescriptor indicates the descriptor marker file is unparsable.
	ErrMalformedDescriptor = errors.New("malformed module descriptor")

	// ErrInvalidPlatform indicates a platform identifier that cannot be used.
	ErrInvalidPlatform = errors.New("invalid platform")
)

// Error records a failure to load one package, with the file at fault.
// It matches its Kind sentinel and its cause with errors.Is.
type Error struct {
	Kind error
	Dir  string
	File string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.File, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
