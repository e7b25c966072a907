package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEmail(t *testing.T) {
	got := ExtractEmail("contact: john.smith@example.com")
	require.NotNil(t, got)
	assert.Equal(t, "john.smith@example.com", *got)

	got = ExtractEmail("first a_b+c@mail.co.uk then second@other.org")
	require.NotNil(t, got)
	assert.Equal(t, "a_b+c@mail.co.uk", *got, "只返回文档中第一个邮箱")

	got = ExtractEmail("UPPER@EXAMPLE.COM")
	require.NotNil(t, got)
	assert.Equal(t, "UPPER@EXAMPLE.COM", *got)

	assert.Nil(t, ExtractEmail("no address here, just @ signs and dots."))
	assert.Nil(t, ExtractEmail("broken@domain"))
	assert.Nil(t, ExtractEmail(""))
}
