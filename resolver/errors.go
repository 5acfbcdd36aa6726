/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package resolver

import (
	"errors"
	"fmt"
)

// ErrNoPlatform indicates Resolve was called without a target platform.
var ErrNoPlatform = errors.New("no target platform")

// Error reports which search path a fatal failure came from. The wrapped
// error carries the package directory and file, usually as a
// *descriptor.Error.
type Error struct {
	SearchPath      string
	SearchPathIndex int
	Err             error
}

func (e *Error) Error() string {
	return fmt.Sprintf("resolving modules in search path %d (%s): %v", e.SearchPathIndex, e.SearchPath, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
