package parser

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// DecodeText 将上传的原始字节解码为合法的UTF-8文本
// 非法字节序列被直接丢弃，不会返回错误；换行符保持原样
func DecodeText(data []byte) string {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		data = data[len(utf8BOM):]
	case bytes.HasPrefix(data, utf16LEBOM), bytes.HasPrefix(data, utf16BEBOM):
		if text, ok := decodeUTF16(data); ok {
			return text
		}
	}

	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "")
}

// decodeUTF16 按BOM指示的字节序解码，BOM本身会被剥离
func decodeUTF16(data []byte) (string, bool) {
	decoder := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", false
	}
	return strings.ToValidUTF8(string(out), ""), true
}

// truncateRunes 按字符（而非字节）截断
func truncateRunes(s string, limit int) (string, bool) {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i], true
		}
		n++
	}
	return s, false
}

// collapseWhitespace 把任意连续空白压缩为单个空格并去掉首尾空白
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
