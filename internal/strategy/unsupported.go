package strategy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vclear/resolver-service/internal/events"
	"vclear/resolver-service/internal/model"
	"vclear/resolver-service/internal/utils"
)

// NewUnsupportedChain 未实现平台的占位链: 唯一的策略总是失败
func NewUnsupportedChain(platform model.Platform, sink events.Sink, logger *zap.Logger) *Chain {
	return NewChain(platform, []Strategy{&unsupportedStrategy{platform: platform}}, sink, logger).
		WithExhaustMessage(fmt.Sprintf("%s not yet supported", platform))
}

// unsupportedStrategy 占位策略
type unsupportedStrategy struct {
	platform model.Platform
}

func (s *unsupportedStrategy) Name() string { return "unsupported" }

func (s *unsupportedStrategy) Resolve(ctx context.Context, rawURL string) (*model.ParseResult, error) {
	return nil, fmt.Errorf("%w: %s", utils.ErrUnsupportedPlatform, s.platform)
}
