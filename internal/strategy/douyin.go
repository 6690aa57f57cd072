package strategy

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"vclear/resolver-service/internal/douyin"
	"vclear/resolver-service/internal/events"
	"vclear/resolver-service/internal/extractor"
	"vclear/resolver-service/internal/httpclient"
	"vclear/resolver-service/internal/model"
	"vclear/resolver-service/internal/utils"
)

// DouyinEndpoints 抖音上游端点, 格式串占位符为视频ID, 测试时指向假上游
type DouyinEndpoints struct {
	ItemInfoAPI       string
	MobileItemInfoAPI string
	SharePage         string
}

// DefaultDouyinEndpoints 线上端点
func DefaultDouyinEndpoints() DouyinEndpoints {
	return DouyinEndpoints{
		ItemInfoAPI:       douyin.ItemInfoAPI,
		MobileItemInfoAPI: douyin.MobileItemInfoAPI,
		SharePage:         douyin.SharePageURL,
	}
}

// NewDouyinChain 组装抖音解析链
// 顺序: 重定向+页面抓取 → 官方网页接口 → 移动端接口 → 宽松页面抓取
// 兜底为官方网页接口直连
func NewDouyinChain(client *httpclient.Client, endpoints DouyinEndpoints, sink events.Sink, logger *zap.Logger) *Chain {
	official := &douyinOfficialAPI{client: client, endpoints: endpoints}
	strategies := []Strategy{
		&douyinRedirectScrape{client: client, endpoints: endpoints},
		official,
		&douyinMobileAPI{client: client, endpoints: endpoints},
		&douyinPageScrape{client: client},
	}
	return NewChain(model.PlatformDouyin, strategies, sink, logger).WithLastResort(official)
}

// resolveDouyinID 从URL提取视频ID, 短链则手动跟一跳重定向后再提取
func resolveDouyinID(ctx context.Context, client *httpclient.Client, rawURL string) (string, error) {
	if id, ok := extractor.ExtractVideoID(rawURL); ok {
		return id, nil
	}

	resp, err := client.Get(ctx, rawURL, &httpclient.Options{FollowRedirects: false})
	if err != nil {
		return "", err
	}
	if loc := resp.Location(); loc != "" {
		if id, ok := extractor.ExtractVideoID(loc); ok {
			return id, nil
		}
	}
	return "", utils.ErrNoVideoID
}

// douyinResult 从归一化的视频信息组装成功结果
func douyinResult(info *model.VideoInfo, videoID string) *model.ParseResult {
	return &model.ParseResult{
		Success:     true,
		Title:       info.Title,
		DownloadURL: info.MediaURL,
		Platform:    string(model.PlatformDouyin),
		VideoID:     videoID,
		Author:      info.Author,
		Duration:    info.DurationSec,
		Size:        "未知",
		Filename:    fmt.Sprintf("douyin_%s.mp4", videoID),
	}
}

// douyinRedirectScrape 解析短链重定向后抓取分享页的内嵌数据
type douyinRedirectScrape struct {
	client    *httpclient.Client
	endpoints DouyinEndpoints
}

func (s *douyinRedirectScrape) Name() string { return "douyin_redirect_scrape" }

func (s *douyinRedirectScrape) Resolve(ctx context.Context, rawURL string) (*model.ParseResult, error) {
	resp, err := s.client.Get(ctx, rawURL, &httpclient.Options{FollowRedirects: false})
	if err != nil {
		return nil, err
	}

	realURL := rawURL
	if resp.StatusCode >= 300 && resp.StatusCode < 400 && resp.Location() != "" {
		realURL = resp.Location()
	}

	videoID, ok := extractor.ExtractVideoID(realURL)
	if !ok {
		// 重定向目标提取不到时退回原始URL
		if videoID, ok = extractor.ExtractVideoID(rawURL); !ok {
			return nil, utils.ErrNoVideoID
		}
	}

	pageURL := fmt.Sprintf(s.endpoints.SharePage, videoID)
	page, err := s.client.Get(ctx, pageURL, &httpclient.Options{
		FollowRedirects: true,
		Headers:         map[string]string{"User-Agent": httpclient.MobileUserAgent},
	})
	if err != nil {
		return nil, err
	}

	info, err := douyin.ExtractFromHTML(page.Body, videoID)
	if err != nil {
		return nil, err
	}
	if info.MediaURL == "" {
		return nil, utils.ErrEmptyMediaURL
	}

	return douyinResult(info, videoID), nil
}

// douyinOfficialAPI 调用官方网页接口
type douyinOfficialAPI struct {
	client    *httpclient.Client
	endpoints DouyinEndpoints
}

func (s *douyinOfficialAPI) Name() string { return "douyin_official_api" }

func (s *douyinOfficialAPI) Resolve(ctx context.Context, rawURL string) (*model.ParseResult, error) {
	videoID, err := resolveDouyinID(ctx, s.client, rawURL)
	if err != nil {
		return nil, err
	}

	apiURL := fmt.Sprintf(s.endpoints.ItemInfoAPI, videoID)
	resp, err := s.client.Get(ctx, apiURL, &httpclient.Options{
		FollowRedirects: true,
		Headers: map[string]string{
			"Referer":          "https://www.douyin.com/",
			"X-Requested-With": "XMLHttpRequest",
		},
	})
	if err != nil {
		return nil, err
	}

	info, err := douyin.ParseItemInfo(resp.Body)
	if err != nil {
		return nil, err
	}

	return douyinResult(info, videoID), nil
}

// douyinMobileAPI 调用移动端接口, 同样的信封不同的端点和UA
type douyinMobileAPI struct {
	client    *httpclient.Client
	endpoints DouyinEndpoints
}

func (s *douyinMobileAPI) Name() string { return "douyin_mobile_api" }

func (s *douyinMobileAPI) Resolve(ctx context.Context, rawURL string) (*model.ParseResult, error) {
	videoID, err := resolveDouyinID(ctx, s.client, rawURL)
	if err != nil {
		return nil, err
	}

	apiURL := fmt.Sprintf(s.endpoints.MobileItemInfoAPI, videoID)
	resp, err := s.client.Get(ctx, apiURL, &httpclient.Options{
		FollowRedirects: true,
		Headers: map[string]string{
			"User-Agent": httpclient.MobileUserAgent,
			"Referer":    "https://www.iesdouyin.com/",
		},
	})
	if err != nil {
		return nil, err
	}

	info, err := douyin.ParseItemInfo(resp.Body)
	if err != nil {
		return nil, err
	}

	return douyinResult(info, videoID), nil
}

// 内联JSON里的播放地址, 从紧到松
var loosePlayAddrPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"playAddr"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`playAddr:\s*"([^"]+)"`),
	regexp.MustCompile(`"play_url"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"src"\s*:\s*"(https?:[^"]+\.mp4[^"]*)"`),
}

var looseDescPattern = regexp.MustCompile(`"desc"\s*:\s*"([^"]+)"`)

// douyinPageScrape 移动端UA抓原始页面, 用宽松正则捞内联播放地址
// 前面的结构化策略全换代失效时的最后一道防线
type douyinPageScrape struct {
	client *httpclient.Client
}

func (s *douyinPageScrape) Name() string { return "douyin_page_scrape" }

func (s *douyinPageScrape) Resolve(ctx context.Context, rawURL string) (*model.ParseResult, error) {
	resp, err := s.client.Get(ctx, rawURL, &httpclient.Options{
		FollowRedirects: true,
		Headers:         map[string]string{"User-Agent": httpclient.MobileUserAgent},
	})
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	var scripts strings.Builder
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		scripts.WriteString(sel.Text())
		scripts.WriteByte('\n')
	})

	mediaURL := matchFirst(loosePlayAddrPatterns, scripts.String())
	if mediaURL == "" {
		mediaURL = matchFirst(loosePlayAddrPatterns, resp.Body)
	}
	if mediaURL == "" {
		return nil, utils.ErrEmptyMediaURL
	}
	mediaURL = unescapeInlineURL(mediaURL)

	title := douyin.DefaultTitle
	if m := looseDescPattern.FindStringSubmatch(scripts.String()); len(m) == 2 {
		title = utils.SanitizeString(m[1])
	} else if t := utils.SanitizeString(doc.Find("title").Text()); t != "" {
		title = t
	}

	videoID, ok := extractor.ExtractVideoID(rawURL)
	if !ok {
		videoID = "video"
	}

	info := &model.VideoInfo{
		Title:    title,
		Author:   douyin.DefaultAuthor,
		MediaURL: mediaURL,
	}
	return douyinResult(info, videoID), nil
}

func matchFirst(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); len(m) == 2 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

// unescapeInlineURL 还原内联JSON里的转义斜杠
func unescapeInlineURL(u string) string {
	u = strings.ReplaceAll(u, `\u002F`, "/")
	u = strings.ReplaceAll(u, `\/`, "/")
	return u
}
