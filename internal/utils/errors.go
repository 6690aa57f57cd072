package utils

import (
	"errors"
	"fmt"
)

var (
	// URL相关错误
	ErrInvalidURL          = errors.New("invalid URL")
	ErrNoURLFound          = errors.New("no URL found in input")
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// 解析相关错误
	ErrNoVideoID      = errors.New("unable to extract video ID")
	ErrMarkerNotFound = errors.New("embedded data marker not found")
	ErrEmptyMediaURL  = errors.New("no media URL in upstream response")
	ErrNotDirectMedia = errors.New("candidate URL is not a direct media file")

	// 上游相关错误
	ErrVideoNotFound    = errors.New("video not found")
	ErrAccessDenied     = errors.New("access denied by upstream")
	ErrRateLimited      = errors.New("rate limited by upstream")
	ErrUpstreamStatus   = errors.New("unexpected upstream status")
	ErrTimeout          = errors.New("request timeout")
	ErrRetriesExhausted = errors.New("max retries exhausted")

	// 系统相关错误
	ErrCacheMiss           = errors.New("cache miss")
	ErrAllStrategiesFailed = errors.New("all strategies failed")
)

// MapStatusError 将上游HTTP状态码映射到具体错误
func MapStatusError(statusCode int) error {
	switch statusCode {
	case 403:
		return ErrAccessDenied
	case 404:
		return ErrVideoNotFound
	case 429:
		return ErrRateLimited
	default:
		return fmt.Errorf("%w: %d", ErrUpstreamStatus, statusCode)
	}
}
