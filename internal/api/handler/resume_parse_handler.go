package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"

	"resume-aids-go/internal/constants"
	"resume-aids-go/internal/logger"
	"resume-aids-go/internal/processor"
	"resume-aids-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.opentelemetry.io/otel/trace"
)

// 返回给客户端的错误信息
const (
	MsgNoFileUploaded  = "No file uploaded"
	MsgNoFileSelected  = "No file selected"
	MsgUnsupportedType = "Only PDF and TXT files are supported"
	MsgFileTooLarge    = "File too large"
)

// UploadProcessor 处理器中 handler 需要的部分
type UploadProcessor interface {
	ValidateUpload(filename string, size int64) error
	ProcessUpload(ctx context.Context, up processor.Upload) (*processor.ParseOutcome, error)
}

var _ UploadProcessor = (*processor.ResumeProcessor)(nil)

// ResumeParseHandler 简历解析接口
type ResumeParseHandler struct {
	processor UploadProcessor
}

// NewResumeParseHandler 创建解析接口处理器
func NewResumeParseHandler(p UploadProcessor) *ResumeParseHandler {
	return &ResumeParseHandler{processor: p}
}

// HandleParse 接收 multipart 字段 file，返回解析结果
func (h *ResumeParseHandler) HandleParse(c context.Context, ctx *app.RequestContext) {
	fileHeader, msg := formFile(ctx)
	if fileHeader == nil {
		ctx.JSON(consts.StatusBadRequest, utils.H{"error": msg})
		return
	}

	// 先按文件头校验，避免读取不合规的内容
	if err := h.processor.ValidateUpload(fileHeader.Filename, fileHeader.Size); err != nil {
		h.writeError(c, ctx, err)
		return
	}

	data, err := readFile(fileHeader)
	if err != nil {
		h.writeError(c, ctx, err)
		return
	}

	outcome, err := h.processor.ProcessUpload(c, processor.Upload{Filename: fileHeader.Filename, Data: data})
	if err != nil {
		h.writeError(c, ctx, err)
		return
	}

	ctx.Response.Header.Set(constants.HeaderRequestID, outcome.RequestID)
	ctx.Response.Header.Set(constants.HeaderDuplicateUpload, strconv.FormatBool(outcome.Duplicate))
	ctx.JSON(consts.StatusOK, outcome.Resume)
}

// HandleHealth 健康检查
func HandleHealth(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
}

// formFile 取出字段 file；文件名为空的 part 会被 multipart 当作普通字段
func formFile(ctx *app.RequestContext) (*multipart.FileHeader, string) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, MsgNoFileUploaded
	}
	if files := form.File["file"]; len(files) > 0 {
		if files[0].Filename == "" {
			return nil, MsgNoFileSelected
		}
		return files[0], ""
	}
	if _, ok := form.Value["file"]; ok {
		return nil, MsgNoFileSelected
	}
	return nil, MsgNoFileUploaded
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件失败: %w", err)
	}
	return data, nil
}

// statusForError 把处理错误映射为状态码和客户端可见的信息
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, processor.ErrEmptyFilename):
		return consts.StatusBadRequest, MsgNoFileSelected
	case errors.Is(err, processor.ErrUnsupportedFileType):
		return consts.StatusBadRequest, MsgUnsupportedType
	case errors.Is(err, processor.ErrFileTooLarge):
		return consts.StatusRequestEntityTooLarge, MsgFileTooLarge
	default:
		return consts.StatusInternalServerError, err.Error()
	}
}

func (h *ResumeParseHandler) writeError(c context.Context, ctx *app.RequestContext, err error) {
	status, msg := statusForError(err)
	tracing.RecordHTTPError(trace.SpanFromContext(c), err, status)
	if status >= consts.StatusInternalServerError {
		logger.Ctx(c).Error().Err(err).Msg("简历解析失败")
	} else {
		logger.Ctx(c).Info().Err(err).Int("status", status).Msg("上传被拒绝")
	}
	ctx.JSON(status, utils.H{"error": msg})
}
