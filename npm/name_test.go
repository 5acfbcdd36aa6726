/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package npm

import (
	"errors"
	"testing"
)

func TestParseName(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantScope string
		wantBase  string
		wantErr   bool
	}{
		{"plain", "react-native-third-party", "", "react-native-third-party", false},
		{"scoped", "@expo/expo-test", "@expo", "expo-test", false},
		{"dotted", "lodash.merge", "", "lodash.merge", false},
		{"empty", "", "", "", true},
		{"bare scope", "@expo", "", "", true},
		{"empty scope", "@/pkg", "", "", true},
		{"nested", "@a/b/c", "", "", true},
		{"dot prefix", ".bin", "", "", true},
		{"underscore prefix", "_private", "", "", true},
		{"space", "my pkg", "", "", true},
		{"dot dot", "..", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseName(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidName) {
					t.Fatalf("expected ErrInvalidName, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n.Scope != tt.wantScope || n.Base != tt.wantBase {
				t.Errorf("got %+v, want scope %q base %q", n, tt.wantScope, tt.wantBase)
			}
			if n.String() != tt.raw {
				t.Errorf("String() = %q, want %q", n.String(), tt.raw)
			}
			if n.IsScoped() != (tt.wantScope != "") {
				t.Errorf("IsScoped() = %v", n.IsScoped())
			}
		})
	}
}

func TestParseName_NFC(t *testing.T) {
	// "cafe" + combining acute accent, as returned by HFS+
	decomposed := "cafe\u0301"
	n, err := ParseName(decomposed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.String() != "caf\u00e9" {
		t.Errorf("expected NFC form, got %q", n.String())
	}
}

func TestNameFromPath(t *testing.T) {
	tests := []struct {
		rel  string
		want string
		ok   bool
	}{
		{"react-native-third-party", "react-native-third-party", true},
		{"@expo/expo-test", "@expo/expo-test", true},
		{"@expo", "", false},
		{"pkg/nested", "", false},
		{"@scope/pkg/nested", "", false},
		{".bin", "", false},
		{".", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			got, ok := NameFromPath(tt.rel)
			if ok != tt.ok || got != tt.want {
				t.Errorf("NameFromPath(%q) = %q, %v; want %q, %v", tt.rel, got, ok, tt.want, tt.ok)
			}
		})
	}
}
