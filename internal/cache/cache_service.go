package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vclear/resolver-service/internal/model"
	"vclear/resolver-service/internal/utils"
)

// Service 解析结果缓存
// 只在服务层生效, 解析管线本身不感知缓存
type Service struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewService 创建缓存服务
func NewService(redisClient *redis.Client, ttl time.Duration) *Service {
	return &Service{
		redis: redisClient,
		ttl:   ttl,
	}
}

// Get 从缓存获取解析结果
func (s *Service) Get(ctx context.Context, url string) (*model.ParseResult, error) {
	key := generateCacheKey(url)

	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, utils.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var result model.ParseResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &result, nil
}

// Set 将解析结果写入缓存
func (s *Service) Set(ctx context.Context, url string, result *model.ParseResult) error {
	key := generateCacheKey(url)

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

// Delete 删除缓存
func (s *Service) Delete(ctx context.Context, url string) error {
	key := generateCacheKey(url)
	return s.redis.Del(ctx, key).Err()
}

// generateCacheKey 生成缓存key
func generateCacheKey(url string) string {
	hash := md5.Sum([]byte(url))
	return fmt.Sprintf("resolver:url:%x", hash)
}
