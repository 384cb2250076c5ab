// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitThread(t *testing.T) {
	long := strings.Repeat("あ", 150)

	tests := []struct {
		name  string
		reply string
		max   int
		want  []string
	}{
		{
			name:  "fraction markers",
			reply: "1/3 A\n2/3 B\n3/3 C",
			max:   3,
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "fraction markers out of order",
			reply: "3/3 C\n\n1/3 A\n2/3 B",
			max:   3,
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "fraction markers inline with colons",
			reply: "1/3: A 2/3：B 3/3 C",
			max:   3,
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "dotted numbering",
			reply: "1. first\n2. second",
			max:   3,
			want:  []string{"first", "second"},
		},
		{
			name:  "bracketed numbering",
			reply: "【1】一つ目【2】二つ目",
			max:   3,
			want:  []string{"一つ目", "二つ目"},
		},
		{
			name:  "too many markers falls back to lines",
			reply: "1/4 a\n2/4 b\n3/4 c\n4/4 d",
			max:   3,
			want:  []string{"1/4 a", "2/4 b", "3/4 c"},
		},
		{
			name:  "plain lines",
			reply: "first\n\n  second  \nthird\nfourth",
			max:   3,
			want:  []string{"first", "second", "third"},
		},
		{
			name:  "overlong segment truncated",
			reply: long,
			max:   3,
			want:  []string{strings.Repeat("あ", 137) + "..."},
		},
		{
			name:  "blank reply",
			reply: "  \n ",
			max:   3,
			want:  []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitThread(tt.reply, tt.max, SegmentCap)
			assert.Equal(t, tt.want, got)
			for _, s := range got {
				assert.LessOrEqual(t, utf8.RuneCountInString(s), SegmentCap)
			}
		})
	}
}
