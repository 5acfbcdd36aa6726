/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package descriptor

import (
	"fmt"
	"slices"
	"strings"
)

// Platform identifies a target platform such as ios or android.
type Platform string

// Known platforms. Descriptors may declare others; they are kept verbatim.
const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
	PlatformMacOS   Platform = "macos"
	PlatformTVOS    Platform = "tvos"
)

// KnownPlatforms lists the platforms whose descriptor blocks are recognised
// even when the descriptor does not declare them.
var KnownPlatforms = []Platform{
	PlatformIOS,
	PlatformAndroid,
	PlatformWeb,
	PlatformMacOS,
	PlatformTVOS,
}

// ParsePlatform normalises a platform identifier.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrInvalidPlatform)
	}
	if strings.ContainsAny(string(p), " \t\n/\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlatform, s)
	}
	return p, nil
}

// IsKnown reports whether p is one of KnownPlatforms.
func (p Platform) IsKnown() bool {
	return slices.Contains(KnownPlatforms, p)
}

func (p Platform) String() string {
	return string(p)
}
