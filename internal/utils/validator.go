package utils

import (
	"net/url"
	"strings"
)

// IsValidURL 验证URL格式是否有效
func IsValidURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	// 必须是http或https协议
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	// 必须有host
	if u.Host == "" {
		return false
	}

	return true
}

// 直链特征: 命中其一才可能是裸媒体文件
var mediaIndicators = []string{".mp4", ".m3u8", ".flv", ".mov", "video", "play"}

// 页面链接特征: 命中其一说明只是分享页, 不是媒体文件
var pageIndicators = []string{"/video/", "/share/", "/web/api", "/note/", ".html"}

// IsDirectMediaURL 判断URL是否指向裸媒体文件而非分享页面
// 防止把指回分享页的链接当作下载直链返回
func IsDirectMediaURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)

	for _, indicator := range pageIndicators {
		if strings.Contains(lower, indicator) {
			return false
		}
	}

	for _, indicator := range mediaIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}

	return false
}
