package storage

import (
	"context"
	"fmt"
	"time"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/constants"
	"resume-extract-go/internal/tracing"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound 键不存在时返回，包装底层的 redis.Nil 以便上层判断
var ErrNotFound = redis.Nil

// Redis 提供简历去重与邮箱索引的键值缓存
type Redis struct {
	client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedisAdapter 创建Redis客户端
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("Redis配置不能为空")
	}

	client := redis.NewClient(&redis.Options{
		Addr:            cfg.Address,
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        cfg.PoolSize,
		MinIdleConns:    cfg.MinIdleConns,
		DialTimeout:     time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:     time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:    time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,
	})

	// 注册OpenTelemetry钩子
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("注册Redis追踪钩子失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("连接Redis失败: %w", err)
	}

	return &Redis{
		client: client,
		cfg:    cfg,
	}, nil
}

// Close 关闭Redis连接
func (r *Redis) Close() error {
	return r.client.Close()
}

// Client 返回底层客户端，供需要原生命令的调用方使用
func (r *Redis) Client() *redis.Client {
	return r.client
}

// IsTextMD5Seen 判断简历原文MD5是否已经入库过
func (r *Redis) IsTextMD5Seen(ctx context.Context, md5Hex string) (bool, error) {
	seen, err := r.client.SIsMember(ctx, constants.RawTextMD5SetKey, md5Hex).Result()
	if err != nil {
		return false, fmt.Errorf("查询原文MD5集合失败: %w", err)
	}
	return seen, nil
}

// RecordTextMD5 将简历原文MD5记入去重集合，并刷新集合过期时间
func (r *Redis) RecordTextMD5(ctx context.Context, md5Hex string) error {
	if err := r.client.SAdd(ctx, constants.RawTextMD5SetKey, md5Hex).Err(); err != nil {
		return fmt.Errorf("写入原文MD5集合失败: %w", err)
	}
	if r.cfg.MD5RecordExpireDays > 0 {
		expire := time.Duration(r.cfg.MD5RecordExpireDays) * 24 * time.Hour
		if err := r.client.Expire(ctx, constants.RawTextMD5SetKey, expire).Err(); err != nil {
			return fmt.Errorf("刷新原文MD5集合过期时间失败: %w", err)
		}
	}
	return nil
}

// CacheEmailIndex 缓存 邮箱 -> 候选人ID 的映射
func (r *Redis) CacheEmailIndex(ctx context.Context, email, jobSeekerID string) error {
	if email == "" {
		return nil
	}
	key := constants.EmailIndexPrefix + email
	if err := r.client.Set(ctx, key, jobSeekerID, constants.EmailIndexDuration).Err(); err != nil {
		// 键里含邮箱，报错信息先截断避免日志被超长键刷爆
		return fmt.Errorf("写入邮箱索引缓存失败 (key=%s): %w", tracing.SafeRedisKey(key), err)
	}
	return nil
}

// LookupEmailIndex 查询邮箱对应的候选人ID
// 缓存未命中时返回 ErrNotFound
func (r *Redis) LookupEmailIndex(ctx context.Context, email string) (string, error) {
	key := constants.EmailIndexPrefix + email
	id, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", err
	}
	return id, nil
}
