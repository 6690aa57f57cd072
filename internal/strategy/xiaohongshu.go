package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"vclear/resolver-service/internal/events"
	"vclear/resolver-service/internal/httpclient"
	"vclear/resolver-service/internal/model"
	"vclear/resolver-service/internal/utils"
)

const xiaohongshuStateMarker = "window.__INITIAL_STATE__"

// NewXiaohongshuChain 小红书解析链, 单策略: 页面初始状态抓取
func NewXiaohongshuChain(client *httpclient.Client, sink events.Sink, logger *zap.Logger) *Chain {
	return NewChain(model.PlatformXiaohongshu, []Strategy{&xiaohongshuPageScrape{client: client}}, sink, logger)
}

// xiaohongshuPageScrape 抓取笔记页并遍历 noteDetailMap 找视频笔记
type xiaohongshuPageScrape struct {
	client *httpclient.Client
}

func (s *xiaohongshuPageScrape) Name() string { return "xiaohongshu_page_scrape" }

func (s *xiaohongshuPageScrape) Resolve(ctx context.Context, rawURL string) (*model.ParseResult, error) {
	resp, err := s.client.Get(ctx, rawURL, &httpclient.Options{
		FollowRedirects: true,
		Headers:         map[string]string{"Referer": "https://www.xiaohongshu.com/"},
	})
	if err != nil {
		return nil, err
	}

	raw, err := utils.ExtractEmbeddedJSON(resp.Body, xiaohongshuStateMarker)
	if err != nil {
		return nil, err
	}

	var state map[string]any
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("failed to decode xiaohongshu initial state: %w", err)
	}

	noteID, note := findVideoNote(state)
	if note == nil {
		return nil, fmt.Errorf("%w: no video note in initial state", utils.ErrEmptyMediaURL)
	}

	mediaURL := noteMediaURL(note)
	if mediaURL == "" {
		return nil, utils.ErrEmptyMediaURL
	}

	title := "小红书视频"
	if t, _ := note["title"].(string); utils.SanitizeString(t) != "" {
		title = utils.SanitizeString(t)
	}
	author := ""
	if user, ok := note["user"].(map[string]any); ok {
		author, _ = user["nickname"].(string)
	}

	return &model.ParseResult{
		Success:     true,
		Title:       title,
		DownloadURL: mediaURL,
		Platform:    string(model.PlatformXiaohongshu),
		VideoID:     noteID,
		Author:      utils.SanitizeString(author),
		Size:        "未知",
		Filename:    fmt.Sprintf("xiaohongshu_%s.mp4", noteID),
	}, nil
}

// findVideoNote 在初始状态里找第一条视频类型的笔记
func findVideoNote(state map[string]any) (string, map[string]any) {
	noteRoot, ok := state["note"].(map[string]any)
	if !ok {
		return "", nil
	}
	detailMap, ok := noteRoot["noteDetailMap"].(map[string]any)
	if !ok {
		return "", nil
	}

	for noteID, entry := range detailMap {
		wrapper, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		note, ok := wrapper["note"].(map[string]any)
		if !ok {
			continue
		}
		if t, _ := note["type"].(string); t != "video" {
			continue
		}
		return noteID, note
	}
	return "", nil
}

// noteMediaURL 探测笔记里的视频地址, 流地址优先, 旧式 videoKey 兜底
func noteMediaURL(note map[string]any) string {
	video, ok := note["video"].(map[string]any)
	if !ok {
		return ""
	}
	media, ok := video["media"].(map[string]any)
	if !ok {
		return ""
	}

	if stream, ok := media["stream"].(map[string]any); ok {
		if h264, ok := stream["h264"].([]any); ok && len(h264) > 0 {
			if first, ok := h264[0].(map[string]any); ok {
				if u, _ := first["masterUrl"].(string); u != "" {
					return u
				}
			}
		}
	}

	// 旧版页面只给 videoKey, 拼上视频CDN才是可下载地址
	if key, _ := media["videoKey"].(string); key != "" {
		return "https://sns-video-bd.xhscdn.com/" + strings.TrimPrefix(key, "/")
	}
	return ""
}
