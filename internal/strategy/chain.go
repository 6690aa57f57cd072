package strategy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vclear/resolver-service/internal/events"
	"vclear/resolver-service/internal/extractor"
	"vclear/resolver-service/internal/model"
	"vclear/resolver-service/internal/utils"
)

// Chain 按固定顺序逐个尝试策略的解析链
// 严格串行, 第一个产出通过直链校验的结果即停止;
// 单个策略的错误只触发换下一个, 全部耗尽才算失败
type Chain struct {
	platform   model.Platform
	strategies []Strategy
	lastResort Strategy
	exhaustMsg string
	sink       events.Sink
	logger     *zap.Logger
}

// NewChain 创建解析链
func NewChain(platform model.Platform, strategies []Strategy, sink events.Sink, logger *zap.Logger) *Chain {
	return &Chain{
		platform:   platform,
		strategies: strategies,
		sink:       sink,
		logger:     logger,
	}
}

// WithLastResort 设置兜底策略: 所有策略失败且拿到了视频ID时再试一次
func (c *Chain) WithLastResort(s Strategy) *Chain {
	c.lastResort = s
	return c
}

// WithExhaustMessage 覆盖全部策略失败时的提示文案
func (c *Chain) WithExhaustMessage(msg string) *Chain {
	c.exhaustMsg = msg
	return c
}

// Platform 返回链路所属平台
func (c *Chain) Platform() model.Platform {
	return c.platform
}

// Resolve 逐策略解析, 任何代码路径都返回 ParseResult, 不向外抛错误
func (c *Chain) Resolve(ctx context.Context, rawURL string) *model.ParseResult {
	videoID, _ := extractor.ExtractVideoID(rawURL)

	for _, s := range c.strategies {
		if result := c.attempt(ctx, s, rawURL); result != nil {
			return result
		}
	}

	// 兜底: 策略全失败但ID已知, 对主接口再直连一次
	if c.lastResort != nil && videoID != "" {
		if result := c.attempt(ctx, c.lastResort, rawURL); result != nil {
			return result
		}
	}

	msg := c.exhaustMsg
	if msg == "" {
		msg = fmt.Sprintf("failed to resolve %s video: it may be private or deleted, or the platform API has changed", c.platform)
	}
	return model.NewFailure(c.platform, videoID, msg)
}

// attempt 执行单个策略并校验产物, 不合格返回nil让链路继续
func (c *Chain) attempt(ctx context.Context, s Strategy, rawURL string) *model.ParseResult {
	result, err := s.Resolve(ctx, rawURL)
	if err != nil {
		c.sink.StrategyAttempted(string(c.platform), s.Name(), events.OutcomeFailure, err.Error())
		c.logger.Debug("strategy failed",
			zap.String("platform", string(c.platform)),
			zap.String("strategy", s.Name()),
			zap.Error(err))
		return nil
	}

	if result == nil || !result.Success || result.DownloadURL == "" {
		c.sink.StrategyAttempted(string(c.platform), s.Name(), events.OutcomeInvalid, "empty result")
		return nil
	}

	result.DownloadURL = utils.NormalizeMediaURL(result.DownloadURL)
	if !utils.IsDirectMediaURL(result.DownloadURL) {
		c.sink.StrategyAttempted(string(c.platform), s.Name(), events.OutcomeInvalid, utils.ErrNotDirectMedia.Error())
		return nil
	}

	c.sink.StrategyAttempted(string(c.platform), s.Name(), events.OutcomeSuccess, "")
	return result
}
