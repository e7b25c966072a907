package constants

import "time"

const (
	// ParserVersion 启发式解析器版本，写入审计记录和事件
	ParserVersion = "heuristic-1.0"

	// RawTextPreviewLimit raw_text 预览的最大字符数
	RawTextPreviewLimit = 500
	// RawTextEllipsis 预览被截断时追加的标记
	RawTextEllipsis = "..."

	// DefaultMaxUploadMB 单个上传文件默认大小上限
	DefaultMaxUploadMB = 10

	// UploadObjectPrefix MinIO 中上传原件的对象前缀
	UploadObjectPrefix = "uploads"

	// DefaultDedupTTL 上传MD5去重记录的默认保留时长
	DefaultDedupTTL = 30 * 24 * time.Hour
)

// Redis Key 统一命名规范: app:{module}:{entity}
const (
	// AppPrefix 所有Redis Key的统一应用前缀
	AppPrefix = "resume_aids"
	// UploadModulePrefix 上传模块
	UploadModulePrefix = "upload"
	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
)

// HTTP 响应头
const (
	HeaderRequestID       = "X-Request-ID"
	HeaderDuplicateUpload = "X-Duplicate-Upload"
	HeaderAPIKey          = "X-API-Key"
)
