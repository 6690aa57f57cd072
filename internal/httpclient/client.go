package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"vclear/resolver-service/internal/config"
	"vclear/resolver-service/internal/utils"
)

// 常用User-Agent
const (
	DesktopUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	MobileUserAgent  = "Mozilla/5.0 (iPhone; CPU iPhone OS 14_6 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Mobile/15E148 Safari/604.1"
)

// defaultHeaders 模拟桌面浏览器的默认请求头
var defaultHeaders = map[string]string{
	"User-Agent":      DesktopUserAgent,
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "zh-CN,zh;q=0.8,en-US;q=0.5,en;q=0.3",
	"DNT":             "1",
	"Connection":      "keep-alive",
}

// Options 单次请求的可选项
type Options struct {
	Headers         map[string]string // 与默认请求头合并, 同名覆盖
	FollowRedirects bool              // false 时3xx原样返回, Location可读
}

// Response 精简后的响应
type Response struct {
	StatusCode int
	Header     http.Header
	Body       string
}

// Location 返回重定向目标, 无则为空串
func (r *Response) Location() string {
	return r.Header.Get("Location")
}

// Client 出站HTTP客户端
// 固定单次超时, 失败后线性退避重试, 最后一次的错误原样抛给调用方
type Client struct {
	follow     *http.Client
	noRedirect *http.Client
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// New 创建HTTP客户端
func New(cfg *config.HTTPConfig, logger *zap.Logger) *Client {
	return &Client{
		follow: &http.Client{},
		noRedirect: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout:    cfg.GetTimeout(),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.GetRetryBackoff(),
		logger:     logger,
	}
}

// Get 发起GET请求
// 2xx为成功; 3xx不视为错误, 重定向目标本身就是有效数据; 其余状态码映射为错误并重试
func (c *Client) Get(ctx context.Context, rawURL string, opts *Options) (*Response, error) {
	if opts == nil {
		opts = &Options{FollowRedirects: true}
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		resp, err := c.doOnce(ctx, rawURL, opts)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, lastErr
		}

		if attempt < c.maxRetries {
			delay := time.Duration(attempt) * c.backoff
			c.logger.Debug("request failed, retrying",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", delay),
				zap.Error(err))

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", utils.ErrTimeout, ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("%w: %w", utils.ErrRetriesExhausted, lastErr)
}

// doOnce 执行单次请求, 自带独立超时
func (c *Client) doOnce(ctx context.Context, rawURL string, opts *Options) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	client := c.follow
	if !opts.FollowRedirects {
		client = c.noRedirect
	}

	resp, err := client.Do(req)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %s", utils.ErrTimeout, rawURL)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 || resp.StatusCode < 200 {
		return nil, utils.MapStatusError(resp.StatusCode)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       string(body),
	}, nil
}
