package extractor

import (
	"regexp"
	"strings"
)

// URL里不允许出现的字符: 空白、引号尖括号、以及中文标点
// 中文标点直接截断匹配, 英文标点留给末尾修剪
const urlChars = `[^\s<>"'。，！？；：、“”‘’（）《》【】]+`

// 分享文本中的链接形态, 平台短链在前, 全域名其次, 通用 http(s) 兜底
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://v\.douyin\.com/[\w-]+/?`),
	regexp.MustCompile(`https?://(?:www\.)?(?:douyin|iesdouyin)\.com/` + urlChars),
	regexp.MustCompile(`https?://(?:www\.|v\.)?kuaishou\.com/` + urlChars),
	regexp.MustCompile(`https?://(?:www\.)?(?:xiaohongshu\.com|xhslink\.com)/` + urlChars),
	regexp.MustCompile(`https?://(?:(?:www\.)?bilibili\.com|b23\.tv)/` + urlChars),
	regexp.MustCompile(`https?://` + urlChars),
}

// 链接后面常跟着的英文标点
const trailingPunct = `,.!?;:'")]}>`

// ExtractURL 从任意分享文本中提取第一个合法链接
// 未命中任何模式时原样返回输入, 由下游校验报告"未找到链接"
func ExtractURL(text string) string {
	trimmed := strings.TrimSpace(text)

	for _, pattern := range urlPatterns {
		if match := pattern.FindString(trimmed); match != "" {
			return strings.TrimRight(match, trailingPunct)
		}
	}

	return trimmed
}
