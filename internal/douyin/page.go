package douyin

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"vclear/resolver-service/internal/model"
	"vclear/resolver-service/internal/utils"
)

// 分享页内嵌数据的标记, 新模板用全局变量, 老模板用百分号编码的脚本块
const (
	routerDataMarker = "window._ROUTER_DATA"
	renderDataMarker = `<script id="RENDER_DATA" type="application/json">`
)

// ExtractFromHTML 从分享页HTML中提取视频信息
// 先按主标记取内嵌JSON, 失败后退到备用标记; 两者都未命中或JSON非法时
// 带错误返回, 由策略层决定是否换下一个策略
func ExtractFromHTML(html, videoID string) (*model.VideoInfo, error) {
	raw, err := utils.ExtractEmbeddedJSON(html, routerDataMarker)
	if err != nil {
		raw, err = extractRenderData(html)
		if err != nil {
			return nil, err
		}
	}

	var blob any
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return nil, fmt.Errorf("embedded data for video %s is not valid JSON: %w", videoID, err)
	}

	item := findVideoItem(blob)
	if item == nil {
		return nil, fmt.Errorf("%w: no video item for %s in embedded data", utils.ErrEmptyMediaURL, videoID)
	}

	return ParseVideoInfo(item), nil
}

// extractRenderData 取出备用标记的脚本块并做百分号解码
func extractRenderData(html string) (string, error) {
	idx := strings.Index(html, renderDataMarker)
	if idx < 0 {
		return "", fmt.Errorf("%w: RENDER_DATA", utils.ErrMarkerNotFound)
	}

	rest := html[idx+len(renderDataMarker):]
	end := strings.Index(rest, "</script>")
	if end < 0 {
		return "", fmt.Errorf("%w: RENDER_DATA block unterminated", utils.ErrMarkerNotFound)
	}

	decoded, err := url.QueryUnescape(rest[:end])
	if err != nil {
		return "", fmt.Errorf("failed to decode RENDER_DATA block: %w", err)
	}
	return decoded, nil
}

// findVideoItem 在内嵌数据里递归找第一个带播放地址的视频条目
// 页面模板换代时外层包装经常变, 条目本身的形态相对稳定
func findVideoItem(node any) map[string]any {
	switch v := node.(type) {
	case map[string]any:
		if video, ok := v["video"].(map[string]any); ok && hasPlayAddress(video) {
			return v
		}
		for _, child := range v {
			if item := findVideoItem(child); item != nil {
				return item
			}
		}
	case []any:
		for _, child := range v {
			if item := findVideoItem(child); item != nil {
				return item
			}
		}
	}
	return nil
}

func hasPlayAddress(video map[string]any) bool {
	for _, key := range []string{"play_addr", "playAddr", "playApi", "download_addr", "downloadAddr"} {
		if _, ok := video[key]; ok {
			return true
		}
	}
	return false
}

// ParseVideoInfo 把异构的条目对象归一成 VideoInfo
// 播放地址同时探测下划线和驼峰两套字段名, 缺失字段给平台默认占位
func ParseVideoInfo(item map[string]any) *model.VideoInfo {
	info := &model.VideoInfo{
		Title:  DefaultTitle,
		Author: DefaultAuthor,
	}

	if desc := stringField(item, "desc"); desc != "" {
		info.Title = utils.SanitizeString(desc)
	}

	if author, ok := item["author"].(map[string]any); ok {
		if nick := stringField(author, "nickname"); nick != "" {
			info.Author = utils.SanitizeString(nick)
		}
	} else if author, ok := item["authorInfo"].(map[string]any); ok {
		if nick := stringField(author, "nickname"); nick != "" {
			info.Author = utils.SanitizeString(nick)
		}
	}

	video, _ := item["video"].(map[string]any)
	if video == nil {
		return info
	}

	if ms, ok := video["duration"].(float64); ok {
		info.DurationSec = msToSeconds(ms)
	}
	info.MediaURL = pickItemMediaURL(video)

	return info
}

// pickItemMediaURL 与接口响应相同的选择策略: 码率列表优先, 其次播放地址, 最后下载地址
func pickItemMediaURL(video map[string]any) string {
	if rates, ok := video["bit_rate"].([]any); ok {
		bestRate := -1.0
		bestURL := ""
		for _, r := range rates {
			m, ok := r.(map[string]any)
			if !ok {
				continue
			}
			u := firstURL(m["play_addr"])
			if u == "" {
				continue
			}
			rate, _ := m["bit_rate"].(float64)
			if rate > bestRate {
				bestRate, bestURL = rate, u
			}
		}
		if bestURL != "" {
			return bestURL
		}
	}

	if u := firstURL(video["play_addr"]); u != "" {
		return u
	}
	if u := firstURL(video["playAddr"]); u != "" {
		return u
	}
	if api := stringValue(video["playApi"]); api != "" {
		return ensureScheme(api)
	}
	if u := firstURL(video["download_addr"]); u != "" {
		return u
	}
	if u := firstURL(video["downloadAddr"]); u != "" {
		return u
	}
	return ""
}

// firstURL 兼容 {url_list:[...]}, [{src:...}], ["..."] 和裸字符串
func firstURL(node any) string {
	switch v := node.(type) {
	case map[string]any:
		if list, ok := v["url_list"].([]any); ok && len(list) > 0 {
			return ensureScheme(stringValue(list[0]))
		}
		return ensureScheme(stringValue(v["src"]))
	case []any:
		if len(v) == 0 {
			return ""
		}
		return firstURL(v[0])
	case string:
		return ensureScheme(v)
	}
	return ""
}

func ensureScheme(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringValue(node any) string {
	s, _ := node.(string)
	return s
}
