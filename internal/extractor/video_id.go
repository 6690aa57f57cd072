package extractor

import "regexp"

// 视频ID的提取模式, 结构化形态优先, 长数字串兜底
// 顺序即优先级, 避免把无关数字串误认成ID
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/video/(\d+)`),
	regexp.MustCompile(`(?:item_ids|item_id|aweme_id|modal_id)=(\d+)`),
	regexp.MustCompile(`/share/video/(\d+)`),
	regexp.MustCompile(`/(\d{6,})/?(?:\?|#|$)`),
	regexp.MustCompile(`\b(\d{15,})\b`),
}

// ExtractVideoID 从URL中提取平台原生视频ID
// 无法提取时返回 ok=false, 依赖ID的策略必须就此终止而不是带空ID继续
func ExtractVideoID(rawURL string) (string, bool) {
	for _, pattern := range idPatterns {
		if m := pattern.FindStringSubmatch(rawURL); len(m) == 2 && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}
