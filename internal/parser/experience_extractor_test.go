package parser

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractExperienceDates(t *testing.T) {
	text := "Worked 2019 to 01/2021 at Acme, joined in March 2018 as engineer"
	entries := ExtractExperience(text)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"March 2018", "01/2021", "2019", "2021", "2018"}, entries[0].Dates,
		"日期按族顺序拼接：月份+年份、MM/YYYY、年份")
	assert.Equal(t, text, entries[0].Description)
}

func TestExtractExperienceSectionRules(t *testing.T) {
	text := strings.Join([]string{
		"Short 2020",
		"A long section without any date-like token in it at all",
		"Senior Engineer, Acme Corp\n   Jan 2019 - Dec 2021\n   Built   payment systems",
	}, "\n\n")

	entries := ExtractExperience(text)
	require.Len(t, entries, 1)
	assert.Equal(t, "Senior Engineer, Acme Corp Jan 2019 - Dec 2021 Built payment systems", entries[0].Description)
	assert.Equal(t, []string{"Jan 2019", "Dec 2021", "2019", "2021"}, entries[0].Dates)
}

func TestExtractExperienceCapsAtFive(t *testing.T) {
	var sections []string
	for i := 0; i < 7; i++ {
		sections = append(sections, fmt.Sprintf("Position number %d at a company, started %d", i, 2010+i))
	}
	entries := ExtractExperience(strings.Join(sections, "\n\n\n"))
	require.Len(t, entries, 5)
	assert.Contains(t, entries[0].Description, "Position number 0")
	assert.Contains(t, entries[4].Description, "Position number 4")
}

func TestExtractExperienceTruncatesDescription(t *testing.T) {
	text := "Jan 2020 " + strings.Repeat("ü", 800)
	entries := ExtractExperience(text)
	require.Len(t, entries, 1)
	assert.Equal(t, 500, utf8.RuneCountInString(entries[0].Description))
}

func TestExtractExperienceCRLF(t *testing.T) {
	text := "Acme Corp 2019-2021 senior engineer role\r\n\r\nSecond block without dates at all here"
	entries := ExtractExperience(text)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"2019", "2021"}, entries[0].Dates)
}

func TestExtractExperienceEmpty(t *testing.T) {
	entries := ExtractExperience("")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestExtractExperienceIgnoresPhoneDigits(t *testing.T) {
	entries := ExtractExperience("John Smith\njohn.smith@example.com\n555-123-4567\nSkilled in Python")
	assert.Empty(t, entries)
}
