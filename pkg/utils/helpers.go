package utils

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// CalculateMD5 computes the MD5 hash of a byte slice.
func CalculateMD5(data []byte) string {
	hasher := md5.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// FileExtension 返回小写的扩展名（含点号），兼容 Windows 风格路径
func FileExtension(filename string) string {
	name := filename
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(filepath.Ext(name))
}
