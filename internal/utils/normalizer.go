package utils

import (
	"net/url"
	"strings"
)

// NormalizeMediaURL 规整候选媒体URL
// 替换带水印的播放路径, 关闭水印参数, 并把清晰度/线路参数统一到最优档
func NormalizeMediaURL(rawURL string) string {
	normalized := strings.Replace(rawURL, "playwm", "play", 1)
	normalized = strings.Replace(normalized, "watermark=1", "watermark=0", 1)

	u, err := url.Parse(normalized)
	if err != nil {
		return normalized
	}

	q := u.Query()
	if q.Has("ratio") {
		q.Set("ratio", "1080p")
	}
	if q.Has("line") {
		q.Set("line", "0")
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// SanitizeString 清理字符串中的多余空白
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}
