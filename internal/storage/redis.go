package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resume-aids-go/internal/config"
	"resume-aids-go/internal/constants"
	"resume-aids-go/internal/tracing"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// Redis 上传去重记录
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter 创建 Redis 客户端并检查连通性
func NewRedisAdapter(ctx context.Context, cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,

		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime: time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute,
	})

	// 所有命令自动生成 span
	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{Client: client, config: cfg}, nil
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// DedupExpireDuration 去重集合的过期时间
func (r *Redis) DedupExpireDuration() time.Duration {
	if r.config == nil || r.config.DedupExpireDays <= 0 {
		return constants.DefaultDedupTTL
	}
	return time.Duration(r.config.DedupExpireDays) * 24 * time.Hour
}

// MarkUploadSeen 记录上传文件MD5，返回此前是否已经出现过
// SADD 与 EXPIRE NX 在同一个 pipeline 中执行，集合过期时间只在首次创建时设置
func (r *Redis) MarkUploadSeen(ctx context.Context, md5Hex string) (bool, error) {
	if r.Client == nil {
		return false, fmt.Errorf("redis client is not initialized")
	}

	ctx, span := tracing.Tracer().Start(ctx, "Redis.MarkUploadSeen")
	defer span.End()
	span.SetAttributes(attribute.String("redis.key", tracing.SafeRedisKey(uploadMD5SetKey)))

	pipe := r.Client.Pipeline()
	added := pipe.SAdd(ctx, uploadMD5SetKey, md5Hex)
	pipe.ExpireNX(ctx, uploadMD5SetKey, r.DedupExpireDuration())
	if _, err := pipe.Exec(ctx); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		return false, fmt.Errorf("记录上传MD5失败: %w", err)
	}

	seenBefore := added.Val() == 0
	span.SetAttributes(attribute.Bool("upload.duplicate", seenBefore))
	return seenBefore, nil
}

// uploadMD5SetKey 上传文件MD5集合 (SET)，格式 resume_aids:upload:dedup_set
var uploadMD5SetKey = FormatKey(constants.UploadModulePrefix, constants.EntityDedupSet)

// FormatKey 按 app:{module}:{entity}[:{id}...] 规范生成Redis Key
func FormatKey(module, entity string, ids ...string) string {
	parts := append([]string{constants.AppPrefix, module, entity}, ids...)
	return strings.Join(parts, ":")
}
