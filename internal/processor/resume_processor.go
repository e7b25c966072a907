package processor // 上传简历的校验、解析与附带的去重、归档、审计

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"resume-aids-go/internal/config"
	"resume-aids-go/internal/constants"
	"resume-aids-go/internal/logger"
	"resume-aids-go/internal/parser"
	"resume-aids-go/internal/storage"
	"resume-aids-go/internal/storage/models"
	"resume-aids-go/internal/tracing"
	"resume-aids-go/internal/types"
	"resume-aids-go/pkg/utils"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultSideEffectTimeout = 5 * time.Second

// Components 聚合所有功能组件依赖，nil 表示该功能未启用
type Components struct {
	Parser           ResumeParser
	DuplicateChecker DuplicateChecker // Redis
	Archiver         Archiver         // MinIO
	AuditRecorder    AuditRecorder    // MySQL + 发件箱
	EventPublisher   EventPublisher   // RabbitMQ
}

// Settings 纯配置项，不包含任何业务逻辑组件
type Settings struct {
	AllowedExtensions []string      // 小写带点，例如 ".txt"
	MaxUploadBytes    int64         // <=0 表示不限制
	SideEffectTimeout time.Duration // 每个附带操作的超时
}

// Upload 一次上传
type Upload struct {
	Filename string
	Data     []byte
}

// ParseOutcome 一次上传的处理结果
type ParseOutcome struct {
	RequestID  string
	Resume     *types.ParsedResume
	MD5        string
	Duplicate  bool
	ArchiveKey string
	Duration   time.Duration
}

// ResumeProcessor 处理上传的简历
type ResumeProcessor struct {
	Components
	settings Settings
}

// NewResumeProcessor 创建处理器
// 未提供解析器时使用启发式解析器
func NewResumeProcessor(comp *Components, set *Settings, opts ...SettingOpt) *ResumeProcessor {
	if comp == nil {
		comp = &Components{}
	}
	if set == nil {
		set = &Settings{}
	}
	for _, opt := range opts {
		opt(set)
	}

	if len(set.AllowedExtensions) == 0 {
		WithsetAllowedExtensions(".txt", ".pdf")(set)
	}
	if set.SideEffectTimeout <= 0 {
		set.SideEffectTimeout = defaultSideEffectTimeout
	}

	rp := &ResumeProcessor{Components: *comp, settings: *set}
	if rp.Parser == nil {
		rp.Parser = parser.NewHeuristicParser()
	}
	return rp
}

// NewProcessorFromConfig 根据配置和已初始化的存储创建处理器
func NewProcessorFromConfig(cfg *config.Config, s *storage.Storage, compOpts ...ComponentOpt) *ResumeProcessor {
	comp := &Components{}
	WithcompStorage(s)(comp)
	for _, opt := range compOpts {
		opt(comp)
	}

	set := &Settings{}
	if cfg != nil {
		WithsetAllowedExtensions(cfg.Upload.AllowedExtensions...)(set)
		WithsetMaxUploadBytes(cfg.Upload.MaxUploadBytes())(set)
	}
	return NewResumeProcessor(comp, set)
}

// Settings 返回当前设置的副本
func (rp *ResumeProcessor) Settings() Settings {
	s := rp.settings
	s.AllowedExtensions = append([]string(nil), rp.settings.AllowedExtensions...)
	return s
}

// ValidateUpload 校验文件名与大小，在读取文件内容之前调用
func (rp *ResumeProcessor) ValidateUpload(filename string, size int64) error {
	if strings.TrimSpace(filename) == "" {
		return NewValidationError(ErrEmptyFilename, "")
	}

	ext := utils.FileExtension(filename)
	allowed := false
	for _, a := range rp.settings.AllowedExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return NewValidationError(ErrUnsupportedFileType, fmt.Sprintf("扩展名 %q", ext))
	}

	if rp.settings.MaxUploadBytes > 0 && size > rp.settings.MaxUploadBytes {
		return NewValidationError(ErrFileTooLarge, fmt.Sprintf("%d > %d 字节", size, rp.settings.MaxUploadBytes))
	}
	return nil
}

// ProcessUpload 校验并解析一次上传，去重、归档、审计失败只记录警告
func (rp *ResumeProcessor) ProcessUpload(ctx context.Context, up Upload) (*ParseOutcome, error) {
	if err := rp.ValidateUpload(up.Filename, int64(len(up.Data))); err != nil {
		return nil, err
	}

	requestUUID, err := uuid.NewV7()
	if err != nil {
		return nil, &UploadError{Op: "request_id", BaseErr: ErrParseFailed, Detail: err.Error()}
	}
	outcome := &ParseOutcome{
		RequestID: requestUUID.String(),
		MD5:       utils.CalculateMD5(up.Data),
	}
	ext := utils.FileExtension(up.Filename)

	ctx = logger.WithRequestID(ctx, outcome.RequestID)
	ctx, span := tracing.Tracer().Start(ctx, "ResumeProcessor.ProcessUpload")
	defer span.End()
	span.SetAttributes(
		attribute.String("request.id", outcome.RequestID),
		attribute.String("upload.filename", tracing.SafeAttributeValue("upload.filename", up.Filename, tracing.MaxFilenameLength)),
		attribute.String("upload.extension", ext),
		attribute.Int("upload.size", len(up.Data)),
	)

	start := time.Now()
	resume, err := rp.parse(ctx, outcome.RequestID, up.Data)
	outcome.Duration = time.Since(start)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, err
	}
	outcome.Resume = resume

	outcome.Duplicate = rp.markDuplicate(ctx, outcome.MD5)
	outcome.ArchiveKey = rp.archive(ctx, outcome.RequestID, ext, up.Data)
	rp.audit(ctx, up, outcome)

	summary := resume.Summary()
	span.SetAttributes(
		attribute.Bool("upload.duplicate", outcome.Duplicate),
		attribute.Bool("resume.has_name", summary.HasName),
		attribute.Bool("resume.has_email", summary.HasEmail),
		attribute.Bool("resume.has_phone", summary.HasPhone),
		attribute.Int("resume.experience_entries", summary.ExperienceEntries),
	)
	span.SetStatus(codes.Ok, "")

	logger.Ctx(ctx).Info().
		Str("filename", tracing.SafeFilename(up.Filename)).
		Int("size", len(up.Data)).
		Bool("duplicate", outcome.Duplicate).
		Int("technical_skills", summary.TechnicalSkills).
		Int("experience_entries", summary.ExperienceEntries).
		Dur("parse_duration", outcome.Duration).
		Msg("简历解析完成")
	return outcome, nil
}

// parse 调用解析器，解析器 panic 时转换为内部错误
func (rp *ResumeProcessor) parse(ctx context.Context, requestID string, data []byte) (resume *types.ParsedResume, err error) {
	_, span := tracing.Tracer().Start(ctx, "parser.Parse")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			logger.Ctx(ctx).Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("解析器发生panic")
			resume = nil
			err = NewParseError(requestID, fmt.Sprint(r))
			tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		}
	}()

	resume = rp.Parser.Parse(data)
	if resume == nil {
		return nil, NewParseError(requestID, "解析器未返回结果")
	}
	return resume, nil
}

func (rp *ResumeProcessor) sideEffectContext(ctx context.Context) (context.Context, context.CancelFunc) {
	// 请求被取消后附带操作仍需完成
	return context.WithTimeout(context.WithoutCancel(ctx), rp.settings.SideEffectTimeout)
}

func (rp *ResumeProcessor) markDuplicate(ctx context.Context, md5Hex string) bool {
	if rp.DuplicateChecker == nil {
		return false
	}
	sctx, cancel := rp.sideEffectContext(ctx)
	defer cancel()

	seen, err := rp.DuplicateChecker.MarkUploadSeen(sctx, md5Hex)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("上传去重检查失败，按首次上传处理")
		return false
	}
	return seen
}

func (rp *ResumeProcessor) archive(ctx context.Context, requestID, ext string, data []byte) string {
	if rp.Archiver == nil {
		return ""
	}
	sctx, cancel := rp.sideEffectContext(ctx)
	defer cancel()

	key, err := rp.Archiver.ArchiveUpload(sctx, requestID, ext, data)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("归档上传原件失败")
		return ""
	}
	return key
}

// audit 有审计记录时事件经发件箱发送，否则直接发布
func (rp *ResumeProcessor) audit(ctx context.Context, up Upload, outcome *ParseOutcome) {
	if rp.AuditRecorder == nil && rp.EventPublisher == nil {
		return
	}
	event := BuildParsedEvent(up, outcome)

	sctx, cancel := rp.sideEffectContext(ctx)
	defer cancel()

	if rp.AuditRecorder != nil {
		record, err := BuildParseRecord(up, outcome)
		if err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("构建解析记录失败")
			return
		}
		if err := rp.AuditRecorder.RecordParse(sctx, record, event); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Msg("写入解析审计记录失败")
		}
		return
	}

	if err := rp.EventPublisher.PublishParsedEvent(sctx, event); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("发布解析事件失败")
	}
}

// BuildParsedEvent 由处理结果生成解析事件，不含字段值
func BuildParsedEvent(up Upload, outcome *ParseOutcome) *storage.ResumeParsedEvent {
	return &storage.ResumeParsedEvent{
		RequestID:        outcome.RequestID,
		OriginalFilename: filepath.Base(up.Filename),
		RawFileMD5:       outcome.MD5,
		FileSize:         int64(len(up.Data)),
		Duplicate:        outcome.Duplicate,
		ArchiveObjectKey: outcome.ArchiveKey,
		Fields:           outcome.Resume.Summary(),
		ParserVersion:    constants.ParserVersion,
		ParseDurationMS:  outcome.Duration.Milliseconds(),
		ParsedAt:         time.Now(),
	}
}

// BuildParseRecord 由处理结果生成审计记录
func BuildParseRecord(up Upload, outcome *ParseOutcome) (*models.ParseRecord, error) {
	summary, err := models.ToJSON(outcome.Resume.Summary())
	if err != nil {
		return nil, fmt.Errorf("序列化字段摘要失败: %w", err)
	}
	return &models.ParseRecord{
		RequestID:        outcome.RequestID,
		OriginalFilename: tracing.SafeFilename(filepath.Base(up.Filename)),
		FileSize:         int64(len(up.Data)),
		RawFileMD5:       outcome.MD5,
		Duplicate:        outcome.Duplicate,
		ArchiveObjectKey: outcome.ArchiveKey,
		FieldSummary:     summary,
		ParserVersion:    constants.ParserVersion,
		ParseDurationMS:  outcome.Duration.Milliseconds(),
		Status:           models.ParseStatusParsed,
	}, nil
}
