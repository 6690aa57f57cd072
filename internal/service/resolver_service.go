package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"vclear/resolver-service/internal/cache"
	"vclear/resolver-service/internal/config"
	"vclear/resolver-service/internal/detector"
	"vclear/resolver-service/internal/events"
	"vclear/resolver-service/internal/extractor"
	"vclear/resolver-service/internal/httpclient"
	"vclear/resolver-service/internal/model"
	"vclear/resolver-service/internal/strategy"
	"vclear/resolver-service/internal/utils"
)

// ResolverService 解析服务
// 串起 分享文本 → 链接提取 → 平台检测 → 策略链 → 结果 的完整流程
type ResolverService struct {
	detector *detector.PlatformDetector
	chains   map[model.Platform]*strategy.Chain
	cache    *cache.Service
	limiter  *utils.ConcurrencyLimiter
	sink     events.Sink
	logger   *zap.Logger
}

// NewResolverService 创建解析服务
// cacheService 为 nil 时关闭缓存
func NewResolverService(
	cfg *config.Config,
	cacheService *cache.Service,
	sink events.Sink,
	logger *zap.Logger,
) *ResolverService {
	client := httpclient.New(&cfg.HTTP, logger)

	chains := make(map[model.Platform]*strategy.Chain)

	if enabled(cfg, "douyin") {
		chains[model.PlatformDouyin] = strategy.NewDouyinChain(client, strategy.DefaultDouyinEndpoints(), sink, logger)
	}
	if enabled(cfg, "kuaishou") {
		chains[model.PlatformKuaishou] = strategy.NewKuaishouChain(client, sink, logger)
	}
	if enabled(cfg, "xiaohongshu") {
		chains[model.PlatformXiaohongshu] = strategy.NewXiaohongshuChain(client, sink, logger)
	}
	if enabled(cfg, "bilibili") {
		chains[model.PlatformBilibili] = strategy.NewUnsupportedChain(model.PlatformBilibili, sink, logger)
	}
	if enabled(cfg, "weishi") {
		chains[model.PlatformWeishi] = strategy.NewUnsupportedChain(model.PlatformWeishi, sink, logger)
	}

	return &ResolverService{
		detector: detector.NewPlatformDetector(),
		chains:   chains,
		cache:    cacheService,
		limiter:  utils.NewConcurrencyLimiter(cfg.HTTP.MaxConcurrent),
		sink:     sink,
		logger:   logger,
	}
}

// enabled 平台未出现在配置里时默认开启
func enabled(cfg *config.Config, platform string) bool {
	if cfg.Platforms == nil {
		return true
	}
	platformCfg, ok := cfg.Platforms[platform]
	if !ok {
		return true
	}
	return platformCfg.Enabled
}

// Resolve 解析分享文本或链接
// 任何代码路径都返回 ParseResult, 错误不会越过这一层
func (s *ResolverService) Resolve(ctx context.Context, rawText string, skipCache bool) *model.ParseResult {
	s.sink.ResolutionStarted(rawText)

	url := extractor.ExtractURL(strings.TrimSpace(rawText))
	if !utils.IsValidURL(url) {
		s.sink.ResolutionCompleted(string(model.PlatformUnknown), false)
		return model.NewFailure(model.PlatformUnknown, "", utils.ErrNoURLFound.Error())
	}

	platform := s.detector.Detect(url)
	if platform == model.PlatformUnknown {
		s.sink.ResolutionCompleted(string(platform), false)
		return model.NewFailure(platform, "", "unsupported platform: expected douyin, kuaishou, xiaohongshu, bilibili or weishi link")
	}

	if !skipCache && s.cache != nil {
		if cached, err := s.cache.Get(ctx, url); err == nil {
			s.logger.Info("cache hit", zap.String("url", url))
			s.sink.ResolutionCompleted(string(platform), cached.Success)
			return cached
		}
	}

	chain, ok := s.chains[platform]
	if !ok {
		s.sink.ResolutionCompleted(string(platform), false)
		return model.NewFailure(platform, "", fmt.Sprintf("%s not yet supported", platform))
	}

	s.limiter.Acquire()
	defer s.limiter.Release()

	s.logger.Info("resolving video",
		zap.String("url", url),
		zap.String("platform", string(platform)))

	result := chain.Resolve(ctx, url)

	if result.Success && s.cache != nil {
		if err := s.cache.Set(ctx, url, result); err != nil {
			s.logger.Warn("cache set failed", zap.Error(err))
		}
	}

	if result.Success {
		s.logger.Info("resolution success",
			zap.String("url", url),
			zap.String("video_id", result.VideoID),
			zap.String("download_url", result.DownloadURL))
	} else {
		s.logger.Warn("resolution failed",
			zap.String("url", url),
			zap.String("platform", string(platform)),
			zap.String("message", result.Message))
	}

	s.sink.ResolutionCompleted(string(platform), result.Success)
	return result
}

// ValidateURL 校验输入是否含受支持平台的链接, 不触发解析
func (s *ResolverService) ValidateURL(rawText string) (bool, model.Platform, string) {
	url := extractor.ExtractURL(strings.TrimSpace(rawText))
	if !utils.IsValidURL(url) {
		return false, model.PlatformUnknown, utils.ErrNoURLFound.Error()
	}

	platform := s.detector.Detect(url)
	if platform == model.PlatformUnknown {
		return false, platform, utils.ErrUnsupportedPlatform.Error()
	}

	if _, ok := s.chains[platform]; !ok {
		return false, platform, fmt.Sprintf("%s not yet supported", platform)
	}

	return true, platform, ""
}
