package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrEmptyFilename       = errors.New("未选择文件")
	ErrUnsupportedFileType = errors.New("不支持的文件类型")
	ErrFileTooLarge        = errors.New("文件过大")
	ErrParseFailed         = errors.New("解析简历失败")
)

// UploadError 包含请求ID与操作阶段的上传处理错误
type UploadError struct {
	RequestID string
	Op        string
	BaseErr   error
	Detail    string
}

func (e *UploadError) Error() string {
	if e.RequestID == "" {
		if e.Detail != "" {
			return fmt.Sprintf("%s (操作:%s): %s", e.BaseErr, e.Op, e.Detail)
		}
		return fmt.Sprintf("%s (操作:%s)", e.BaseErr, e.Op)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 请求:%s): %s", e.BaseErr, e.Op, e.RequestID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 请求:%s)", e.BaseErr, e.Op, e.RequestID)
}

func (e *UploadError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *UploadError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// NewValidationError 上传校验失败
func NewValidationError(base error, detail string) error {
	return &UploadError{Op: "validate", BaseErr: base, Detail: detail}
}

// NewParseError 解析阶段的内部错误
func NewParseError(requestID, detail string) error {
	return &UploadError{RequestID: requestID, Op: "parse", BaseErr: ErrParseFailed, Detail: detail}
}

// IsClientError 是否由客户端输入导致
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyFilename) ||
		errors.Is(err, ErrUnsupportedFileType) ||
		errors.Is(err, ErrFileTooLarge)
}
