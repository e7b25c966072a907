package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"resume-aids-go/internal/logger"
	"resume-aids-go/internal/parser"
	"resume-aids-go/internal/types"

	"github.com/spf13/pflag"
)

// fileResult 单个文件的输出
type fileResult struct {
	File   string              `json:"file"`
	Resume *types.ParsedResume `json:"resume,omitempty"`
	Error  string              `json:"error,omitempty"`
}

type options struct {
	files  []string
	pretty bool
	maxRaw int
}

func main() {
	var opts options
	pflag.StringArrayVarP(&opts.files, "file", "f", nil, "简历文件路径，可重复指定")
	pflag.BoolVar(&opts.pretty, "pretty", false, "格式化输出JSON")
	pflag.IntVar(&opts.maxRaw, "max-raw", -1, "raw_text 显示的最大字符数，-1 表示不限制")
	pflag.Parse()

	logger.Init(logger.Config{Level: "warn", Format: "pretty"})

	// 位置参数也视为文件
	opts.files = append(opts.files, pflag.Args()...)
	if len(opts.files) == 0 {
		fmt.Fprintln(os.Stderr, "错误: 必须提供至少一个文件。使用 --file/-f 参数。")
		pflag.Usage()
		os.Exit(2)
	}

	if failed := run(opts, os.Stdout); failed > 0 {
		os.Exit(1)
	}
}

// run 解析所有文件并逐个输出，返回无法读取的文件数
func run(opts options, out io.Writer) int {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}

	failed := 0
	for _, file := range opts.files {
		res := parseFile(file, opts.maxRaw)
		if res.Error != "" {
			failed++
			logger.Error().Str("file", file).Str("error", res.Error).Msg("读取文件失败")
		}
		if err := enc.Encode(res); err != nil {
			logger.Error().Err(err).Msg("输出结果失败")
			failed++
		}
	}
	return failed
}

func parseFile(file string, maxRaw int) fileResult {
	res := fileResult{File: filepath.Base(file)}
	data, err := os.ReadFile(file)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Resume = parser.Parse(data)
	res.Resume.RawText = capRunes(res.Resume.RawText, maxRaw)
	return res
}

// capRunes 按字符截断，limit < 0 时不截断
func capRunes(s string, limit int) string {
	if limit < 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
