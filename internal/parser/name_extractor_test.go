package parser

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractName(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *string
	}{
		{"标签字段", "Name: Jane Doe\nSoftware engineer", strPtr("Jane Doe")},
		{"标签不区分大小写", "NAME   Jane Doe\n", strPtr("Jane Doe")},
		{"文档首行", "John Smith\njohn@example.com", strPtr("John Smith")},
		{"首行前有空白", "\n\n  Alice Mary Johnson\nEngineer", strPtr("Alice Mary Johnson")},
		{"首行最多三个词", "Alice Mary Ann Johnson\n", strPtr("Alice Mary Ann")},
		{"小写独立行", "jane doe\nemail: jane@x.io", strPtr("jane doe")},
		{"空标签继续尝试后续规则", "Name:   \n\nJohn Appleseed", strPtr("John Appleseed")},
		{"单词被拒绝", "Name: Cher\n12345", nil},
		{"第一条独立行只有一个词", "Summary\n\nexperienced developer", nil},
		{"空文本", "", nil},
		{"没有字母", "12345\n+++", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractName(tt.text)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestExtractNameLengthBound(t *testing.T) {
	long := strings.Repeat("Abcdefghij ", 6)
	got := ExtractName("name: " + long)
	if got != nil {
		assert.LessOrEqual(t, utf8.RuneCountInString(*got), 50)
		assert.GreaterOrEqual(t, len(strings.Fields(*got)), 2)
	}
}

func strPtr(s string) *string {
	return &s
}
