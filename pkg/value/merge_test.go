// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMergeRFC7396 mirrors the RFC 7396 "Appendix A" example table: each
// case merges a target document with a patch and checks the result.
func TestMergeRFC7396(t *testing.T) {
	tests := []struct {
		name   string
		target Value
		patch  Value
		want   Value
	}{
		{
			name:   "replaces a scalar field",
			target: Object(map[string]Value{"a": String("b")}),
			patch:  Object(map[string]Value{"a": String("c")}),
			want:   Object(map[string]Value{"a": String("c")}),
		},
		{
			name:   "null deletes the field",
			target: Object(map[string]Value{"a": String("b")}),
			patch:  Object(map[string]Value{"a": Null()}),
			want:   Object(map[string]Value{}),
		},
		{
			name:   "adds a new field",
			target: Object(map[string]Value{"a": String("b")}),
			patch:  Object(map[string]Value{"b": String("c")}),
			want:   Object(map[string]Value{"a": String("b"), "b": String("c")}),
		},
		{
			name:   "arrays are replaced wholesale, not merged",
			target: Object(map[string]Value{"a": Array(String("b"))}),
			patch:  Object(map[string]Value{"a": Array(String("c"), String("d"))}),
			want:   Object(map[string]Value{"a": Array(String("c"), String("d"))}),
		},
		{
			name:   "a non-object patch replaces the whole target",
			target: Object(map[string]Value{"a": String("b")}),
			patch:  Array(String("c")),
			want:   Array(String("c")),
		},
		{
			name: "nested objects merge recursively",
			target: Object(map[string]Value{
				"a": Object(map[string]Value{"b": String("c")}),
			}),
			patch: Object(map[string]Value{
				"a": Object(map[string]Value{"b": Null(), "c": String("d")}),
			}),
			want: Object(map[string]Value{
				"a": Object(map[string]Value{"c": String("d")}),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.target.Merge(tt.patch)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}
