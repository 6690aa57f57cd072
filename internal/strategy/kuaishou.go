package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"vclear/resolver-service/internal/events"
	"vclear/resolver-service/internal/httpclient"
	"vclear/resolver-service/internal/model"
	"vclear/resolver-service/internal/utils"
)

const kuaishouPageMarker = "window.pageData"

// NewKuaishouChain 快手解析链, 单策略: 页面内嵌数据抓取
func NewKuaishouChain(client *httpclient.Client, sink events.Sink, logger *zap.Logger) *Chain {
	return NewChain(model.PlatformKuaishou, []Strategy{&kuaishouPageScrape{client: client}}, sink, logger)
}

// kuaishouPageData 快手分享页内嵌的数据块
type kuaishouPageData struct {
	VideoInfo struct {
		Title     string `json:"title"`
		UserName  string `json:"userName"`
		PhotoID   string `json:"photoId"`
		SrcNoMark string `json:"srcNoMark"`
		Src       string `json:"src"`
	} `json:"videoInfo"`
}

// kuaishouPageScrape 抓取分享页并解析 window.pageData
type kuaishouPageScrape struct {
	client *httpclient.Client
}

func (s *kuaishouPageScrape) Name() string { return "kuaishou_page_scrape" }

func (s *kuaishouPageScrape) Resolve(ctx context.Context, rawURL string) (*model.ParseResult, error) {
	resp, err := s.client.Get(ctx, rawURL, &httpclient.Options{FollowRedirects: true})
	if err != nil {
		return nil, err
	}

	raw, err := utils.ExtractEmbeddedJSON(resp.Body, kuaishouPageMarker)
	if err != nil {
		return nil, err
	}

	var page kuaishouPageData
	if err := json.Unmarshal([]byte(raw), &page); err != nil {
		return nil, fmt.Errorf("failed to decode kuaishou page data: %w", err)
	}

	v := page.VideoInfo
	// 无水印源优先
	mediaURL := v.SrcNoMark
	if mediaURL == "" {
		mediaURL = v.Src
	}
	if mediaURL == "" {
		return nil, utils.ErrEmptyMediaURL
	}

	photoID := v.PhotoID
	if photoID == "" {
		photoID = "video"
	}
	title := utils.SanitizeString(v.Title)
	if title == "" {
		title = "快手视频"
	}

	return &model.ParseResult{
		Success:     true,
		Title:       title,
		DownloadURL: mediaURL,
		Platform:    string(model.PlatformKuaishou),
		VideoID:     photoID,
		Author:      utils.SanitizeString(v.UserName),
		Size:        "未知",
		Filename:    fmt.Sprintf("kuaishou_%s.mp4", photoID),
	}, nil
}
