// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

func TestFormatError_Nil(t *testing.T) {
	t.Parallel()

	if got := FormatError(nil, "config.cue"); got != nil {
		t.Errorf("FormatError(nil) = %v, want nil", got)
	}
}

func TestFormatError_IncludesFileAndPath(t *testing.T) {
	t.Parallel()

	ctx := cuecontext.New()
	schema := ctx.CompileString(`#C: {ports: {database: int}}`)
	user := ctx.CompileString(`ports: database: "not a number"`)

	unified := schema.LookupPath(cue.ParsePath("#C")).Unify(user)
	err := unified.Validate(cue.Concrete(false))
	if err == nil {
		t.Fatal("expected validation error")
	}

	formatted := FormatError(err, "config.cue")
	if !strings.Contains(formatted.Error(), "config.cue") {
		t.Errorf("formatted error should name the file: %v", formatted)
	}
	if !strings.Contains(formatted.Error(), "ports.database") {
		t.Errorf("formatted error should carry the JSON path: %v", formatted)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{name: "empty", path: nil, want: ""},
		{name: "simple", path: []string{"organization"}, want: "organization"},
		{name: "nested", path: []string{"ports", "database"}, want: "ports.database"},
		{name: "index", path: []string{"images", "0", "tag"}, want: "images[0].tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	if err := CheckFileSize(make([]byte, 10), 10, "config.cue"); err != nil {
		t.Errorf("size at limit should pass: %v", err)
	}
	err := CheckFileSize(make([]byte, 11), 10, "config.cue")
	if err == nil {
		t.Fatal("size over limit should fail")
	}
	if !strings.Contains(err.Error(), "config.cue") {
		t.Errorf("error should name the file: %v", err)
	}
}
