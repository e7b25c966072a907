package parser

import (
	"math/rand"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"resume-aids-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = "John Smith\njohn.smith@example.com\n555-123-4567\nSkilled in Python and leadership.\n\n" +
	"Jan 2020 - Present\nDeveloped a new pipeline that increased throughput by 30%.\n• Increased throughput by 30%"

func TestParseSampleResume(t *testing.T) {
	r := Parse([]byte(sampleResume))

	require.NotNil(t, r.Name)
	assert.Equal(t, "John Smith", *r.Name)
	require.NotNil(t, r.Email)
	assert.Equal(t, "john.smith@example.com", *r.Email)
	require.NotNil(t, r.Phone)
	assert.Equal(t, "555-123-4567", *r.Phone)

	assert.Contains(t, r.Skills.Technical, "python")
	assert.Contains(t, r.Skills.Soft, "leadership")

	require.Len(t, r.Experience, 1)
	assert.Contains(t, r.Experience[0].Dates, "Jan 2020")

	found := false
	for _, a := range r.Achievements {
		if strings.Contains(a, "increased throughput by 30%") {
			found = true
		}
	}
	assert.True(t, found, "成就中应包含 increased throughput by 30%%: %v", r.Achievements)

	assert.Equal(t, sampleResume, r.RawText)
}

func TestParseEmptyInput(t *testing.T) {
	r := Parse([]byte{})

	assert.Nil(t, r.Name)
	assert.Nil(t, r.Email)
	assert.Nil(t, r.Phone)
	assert.NotNil(t, r.Skills.Technical)
	assert.Empty(t, r.Skills.Technical)
	assert.NotNil(t, r.Skills.Soft)
	assert.Empty(t, r.Skills.Soft)
	assert.NotNil(t, r.Experience)
	assert.Empty(t, r.Experience)
	assert.NotNil(t, r.Achievements)
	assert.Empty(t, r.Achievements)
	assert.Equal(t, "", r.RawText)
}

func TestParseRawTextPreview(t *testing.T) {
	long := strings.Repeat("a", 600)
	r := Parse([]byte(long))
	assert.Equal(t, strings.Repeat("a", 500)+"...", r.RawText)

	exact := strings.Repeat("b", 500)
	r = Parse([]byte(exact))
	assert.Equal(t, exact, r.RawText, "恰好500字符时不截断")

	multi := strings.Repeat("é", 501)
	r = Parse([]byte(multi))
	assert.Equal(t, strings.Repeat("é", 500)+"...", r.RawText)
}

func TestParseUndecodableBytes(t *testing.T) {
	data := []byte("%PDF-1.4\n\xff\xfe\x00\x01 binary \x80\x81 stream")
	r := Parse(data)
	assert.True(t, utf8.ValidString(r.RawText))
	assert.Nil(t, r.Email)
}

func TestHeuristicParserMatchesParse(t *testing.T) {
	p := NewHeuristicParser()
	assert.Equal(t, Parse([]byte(sampleResume)), p.Parse([]byte(sampleResume)))
}

func TestParseIsIdempotent(t *testing.T) {
	first := Parse([]byte(sampleResume))
	second := Parse([]byte(sampleResume))
	assert.Equal(t, first, second)
}

func TestParseConcurrent(t *testing.T) {
	want := Parse([]byte(sampleResume))

	var wg sync.WaitGroup
	results := make([]*types.ParsedResume, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Parse([]byte(sampleResume))
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

// TestParseInvariantsOnRandomInput 随机拼接简历常见片段，检查输出约束始终成立
func TestParseInvariantsOnRandomInput(t *testing.T) {
	fragments := []string{
		"John Smith", "Name: Ana Maria Lopez", "jane@example.org", "+1 202 555 0101",
		"(555) 123-4567", "Python", "machine learning", "Leadership", "\n", "\n\n", "\r\n",
		"Jan 2019 - Mar 2021", "05/2020", "• Increased revenue by 20%", "- Reduced churn by 3%",
		"Won first prize in the national olympiad", "Awards: Employee of the year 2018",
		"Led a team of twelve", "\xff\xfe", "ünïcödé", "  ", "\t", "a", strings.Repeat("x", 120),
	}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		var sb strings.Builder
		for j := rng.Intn(40); j > 0; j-- {
			sb.WriteString(fragments[rng.Intn(len(fragments))])
			sb.WriteByte(' ')
		}
		r := Parse([]byte(sb.String()))

		if r.Name != nil {
			assert.GreaterOrEqual(t, len(strings.Fields(*r.Name)), 2)
			assert.LessOrEqual(t, utf8.RuneCountInString(*r.Name), 50)
		}
		assert.Subset(t, TechnicalSkills(), r.Skills.Technical)
		assert.Subset(t, SoftSkills(), r.Skills.Soft)

		assert.LessOrEqual(t, len(r.Experience), 5)
		for _, e := range r.Experience {
			assert.NotEmpty(t, e.Dates)
			assert.LessOrEqual(t, utf8.RuneCountInString(e.Description), 500)
			assert.Greater(t, utf8.RuneCountInString(e.Description), 30)
		}

		assert.LessOrEqual(t, len(r.Achievements), 5)
		seen := map[string]bool{}
		for _, a := range r.Achievements {
			assert.Greater(t, utf8.RuneCountInString(a), 10)
			assert.False(t, seen[a])
			seen[a] = true
		}

		assert.LessOrEqual(t, utf8.RuneCountInString(r.RawText), 503)
	}
}

func TestGuardFieldRecoversPanic(t *testing.T) {
	called := false
	assert.NotPanics(t, func() {
		guardField("test", func() {
			called = true
			panic("boom")
		})
	})
	assert.True(t, called)
}
