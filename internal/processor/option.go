package processor

import (
	"strings"
	"time"

	"resume-aids-go/internal/storage"
)

// ComponentOpt 组件选项类型，仅改变 Components 结构体内的字段
type ComponentOpt func(*Components)

// SettingOpt 设置选项类型，仅改变 Settings 结构体内的字段
type SettingOpt func(*Settings)

// ----- 组件选项 -----

// WithcompParser 设置解析器
func WithcompParser(p ResumeParser) ComponentOpt {
	return func(c *Components) {
		c.Parser = p
	}
}

// WithcompDuplicateChecker 设置上传去重组件
func WithcompDuplicateChecker(d DuplicateChecker) ComponentOpt {
	return func(c *Components) {
		c.DuplicateChecker = d
	}
}

// WithcompArchiver 设置原件归档组件
func WithcompArchiver(a Archiver) ComponentOpt {
	return func(c *Components) {
		c.Archiver = a
	}
}

// WithcompAuditRecorder 设置审计记录组件
func WithcompAuditRecorder(r AuditRecorder) ComponentOpt {
	return func(c *Components) {
		c.AuditRecorder = r
	}
}

// WithcompEventPublisher 设置事件发布组件
func WithcompEventPublisher(p EventPublisher) ComponentOpt {
	return func(c *Components) {
		c.EventPublisher = p
	}
}

// WithcompStorage 从存储管理器中取出已初始化的组件
// 为 nil 的存储组件不会写入接口字段
func WithcompStorage(s *storage.Storage) ComponentOpt {
	return func(c *Components) {
		if s == nil {
			return
		}
		if s.Redis != nil {
			c.DuplicateChecker = s.Redis
		}
		if s.MinIO != nil {
			c.Archiver = s.MinIO
		}
		if s.MySQL != nil {
			c.AuditRecorder = s.MySQL
		}
		if s.RabbitMQ != nil {
			c.EventPublisher = s.RabbitMQ
		}
	}
}

// ----- 设置选项 -----

// WithsetAllowedExtensions 设置允许的扩展名，统一为小写带点
func WithsetAllowedExtensions(exts ...string) SettingOpt {
	return func(s *Settings) {
		allowed := make([]string, 0, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			allowed = append(allowed, ext)
		}
		s.AllowedExtensions = allowed
	}
}

// WithsetMaxUploadBytes 设置单个文件大小上限，<=0 表示不限制
func WithsetMaxUploadBytes(n int64) SettingOpt {
	return func(s *Settings) {
		s.MaxUploadBytes = n
	}
}

// WithsetSideEffectTimeout 设置去重、归档、审计等附带操作的超时
func WithsetSideEffectTimeout(d time.Duration) SettingOpt {
	return func(s *Settings) {
		if d > 0 {
			s.SideEffectTimeout = d
		}
	}
}
