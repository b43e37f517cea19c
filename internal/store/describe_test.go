package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNames_Describe(t *testing.T) {
	names := NewNames()
	names.Chapters["65"] = "Invatamant"
	names.Chapters["07"] = "Impozite pe proprietate"
	names.Subchapters["07.01"] = "Impozit pe cladiri"

	tests := []struct {
		name string
		code string
		want CodeInfo
	}{
		{
			name: "expense code",
			code: "65.03.01",
			want: CodeInfo{Raw: "65.03.01", Trimmed: "65.03.01", Chapter: "65", ChapterName: "Invatamant", Subchapter: "65.03"},
		},
		{
			name: "income code with subchapter name",
			code: "07.01.01",
			want: CodeInfo{Raw: "07.01.01", Trimmed: "07.01.01", Chapter: "07", ChapterName: "Impozite pe proprietate", Subchapter: "07.01", SubchapterName: "Impozit pe cladiri"},
		},
		{
			name: "invisible characters are trimmed",
			code: "\u00a065.03.01\u200b",
			want: CodeInfo{Raw: "\u00a065.03.01\u200b", Trimmed: "65.03.01", Chapter: "65", ChapterName: "Invatamant", Subchapter: "65.03"},
		},
		{
			name: "sentinel",
			code: "00.00.00",
			want: CodeInfo{Raw: "00.00.00", Trimmed: "00.00.00", Sentinel: true},
		},
		{
			name: "blank",
			code: "  ",
			want: CodeInfo{Raw: "  ", Sentinel: true},
		},
		{
			name: "unknown chapter",
			code: "99",
			want: CodeInfo{Raw: "99", Trimmed: "99", Chapter: "99"},
		},
		{
			name: "not a code",
			code: "abc",
			want: CodeInfo{Raw: "abc", Trimmed: "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names.Describe(tt.code))
		})
	}
}
