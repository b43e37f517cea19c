package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Învățământ", "invatamant"},
		{"SĂNĂTATE", "sanatate"},
		{"Café", "cafe"},
		{"plain ascii 65.03", "plain ascii 65.03"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestFoldMatcher_Match(t *testing.T) {
	m := FoldMatcher{}
	tests := []struct {
		name     string
		haystack string
		query    string
		want     bool
	}{
		{"case insensitive", "Invatamant liceal fn:65.03.01", "LICEAL", true},
		{"diacritics in haystack", "Învățământ 65", "invatamant", true},
		{"diacritics in query", "Invatamant 65", "învățământ", true},
		{"all tokens required", "Salarii ec:10.01.01", "salarii 10.01", true},
		{"missing token", "Salarii ec:10.01.01", "salarii 20.01", false},
		{"code prefix", "Invatamant liceal fn:65.03.01", "fn:65.03", true},
		{"empty query", "anything", "", false},
		{"blank query", "anything", "  \t ", false},
		{"no match", "Sanatate 66", "drumuri", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.haystack, tt.query))
		})
	}
}

func TestMatcherFunc(t *testing.T) {
	var calls int
	m := MatcherFunc(func(haystack, query string) bool {
		calls++
		return strings.Contains(haystack, query)
	})

	assert.True(t, m.Match("Salarii", "Sal"))
	assert.False(t, m.Match("Salarii", "sal"))
	assert.Equal(t, 2, calls)
}
