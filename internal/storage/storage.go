package storage

import (
	"context"
	"fmt"
	"strings"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/logger"
)

// Storage 存储管理器，聚合所有存储相关依赖
type Storage struct {
	// 关系型数据库
	MySQL *MySQL

	// 去重缓存
	Redis *Redis

	// 对象存储
	MinIO *MinIO

	// 消息队列
	RabbitMQ *RabbitMQ
}

// NewStorage 创建存储管理器
// 各后端按配置逐个初始化；单个后端失败只记警告，全部失败才报错，
// 调用方需自行检查所需后端是否就绪
func NewStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}

	s := &Storage{}
	var err error
	var initErrors []string

	// 初始化MySQL（如果配置了）
	if cfg.MySQL.Host != "" {
		s.MySQL, err = NewMySQL(&cfg.MySQL)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MySQL失败")
			initErrors = append(initErrors, fmt.Sprintf("MySQL: %v", err))
		} else {
			logger.Info().Msg("MySQL客户端初始化成功")
		}
	}

	// 初始化Redis（如果配置了）
	if cfg.Redis.Address != "" {
		s.Redis, err = NewRedisAdapter(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化Redis失败")
			initErrors = append(initErrors, fmt.Sprintf("Redis: %v", err))
		} else {
			logger.Info().Str("address", cfg.Redis.Address).Msg("Redis客户端初始化成功")
		}
	}

	// 初始化MinIO（如果配置了）
	if cfg.MinIO.Endpoint != "" {
		s.MinIO, err = NewMinIO(&cfg.MinIO)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化MinIO失败")
			initErrors = append(initErrors, fmt.Sprintf("MinIO: %v", err))
		} else {
			logger.Info().Msg("MinIO客户端初始化成功")
		}
	}

	// 初始化RabbitMQ（如果配置了）
	if cfg.RabbitMQ.URL != "" {
		s.RabbitMQ, err = NewRabbitMQ(&cfg.RabbitMQ)
		if err != nil {
			logger.Warn().Err(err).Msg("初始化RabbitMQ失败")
			initErrors = append(initErrors, fmt.Sprintf("RabbitMQ: %v", err))
		} else {
			logger.Info().Msg("RabbitMQ客户端初始化成功")
		}
	}

	if s.MySQL == nil && s.Redis == nil && s.MinIO == nil && s.RabbitMQ == nil {
		return nil, fmt.Errorf("所有存储组件初始化失败: %s", strings.Join(initErrors, "; "))
	}

	if len(initErrors) > 0 {
		logger.Warn().Str("errors", strings.Join(initErrors, "; ")).Msg("部分存储组件初始化失败")
	}

	return s, nil
}

// Close 关闭所有连接
func (s *Storage) Close() {
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}

	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭MySQL连接失败")
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Error().Err(err).Msg("关闭Redis连接失败")
		}
	}
	// MinIO客户端无需显式关闭
}
