package textutils_test

import (
	"testing"

	"fjacquet/budget-rollup/internal/textutils"

	"github.com/stretchr/testify/assert"
)

func TestRobustTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "65.03.01", expected: "65.03.01"},
		{name: "ascii whitespace", input: " \t65.03\n", expected: "65.03"},
		{name: "non-breaking space", input: "\u00a065.03\u00a0", expected: "65.03"},
		{name: "zero-width characters", input: "\u200b65\u200c.\u200d03\u2060", expected: "65.03"},
		{name: "byte order mark", input: "\ufeff51.01", expected: "51.01"},
		{name: "only invisible", input: "\u00a0\u200b \ufeff", expected: ""},
		{name: "empty", input: "", expected: ""},
		{name: "keeps inner spaces", input: "  Invatamant liceal ", expected: "Invatamant liceal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textutils.RobustTrim(tt.input))
		})
	}
}

func TestIsSentinel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "zero", input: "0", expected: true},
		{name: "zero code", input: "00.00.00", expected: true},
		{name: "zero code with padding", input: " 00.00.00\u00a0", expected: true},
		{name: "empty", input: "", expected: true},
		{name: "whitespace", input: "   ", expected: true},
		{name: "real code", input: "65.03.01", expected: false},
		{name: "double zero chapter", input: "00", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textutils.IsSentinel(tt.input))
		})
	}
}

func TestChapterPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "full code", input: "65.03.01", expected: "65", ok: true},
		{name: "chapter only", input: "65", expected: "65", ok: true},
		{name: "trailing dot", input: "65.", expected: "65", ok: true},
		{name: "padded", input: "\u200b 51.01.01 ", expected: "51", ok: true},
		{name: "no dots", input: "6503", expected: "65", ok: true},
		{name: "single digit", input: "6.03", ok: false},
		{name: "letters", input: "AB.01", ok: false},
		{name: "empty", input: "", ok: false},
		{name: "whitespace only", input: "  \u00a0", ok: false},
		{name: "dot only", input: ".", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, ok := textutils.ChapterPrefix(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, prefix)
		})
	}
}

func TestSubchapterPrefix(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		ok       bool
	}{
		{name: "paragraph code", input: "65.04.02", expected: "65.04", ok: true},
		{name: "subchapter only", input: "65.04", expected: "65.04", ok: true},
		{name: "subchapter trailing dot", input: "65.04.", expected: "65.04", ok: true},
		{name: "chapter only", input: "65", ok: false},
		{name: "chapter trailing dot", input: "65.", ok: false},
		{name: "one digit after dot", input: "65.4", ok: false},
		{name: "zero width inside", input: "65\u200b.04", expected: "65.04", ok: true},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix, ok := textutils.SubchapterPrefix(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, prefix)
		})
	}
}

func TestFallbackName(t *testing.T) {
	assert.Equal(t, "Salarii", textutils.FallbackName(" Salarii\u00a0", "Unknown"))
	assert.Equal(t, "Unknown", textutils.FallbackName("\u200b ", "Unknown"))
	assert.Equal(t, "Unknown", textutils.FallbackName("", "Unknown"))
}
