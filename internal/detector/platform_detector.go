package detector

import (
	"strings"

	"vclear/resolver-service/internal/model"
)

// domainRule 平台与域名的映射, 顺序固定, 先命中先赢
type domainRule struct {
	platform model.Platform
	domains  []string
}

var rules = []domainRule{
	{model.PlatformDouyin, []string{"douyin.com", "dy.com", "iesdouyin.com"}},
	{model.PlatformKuaishou, []string{"kuaishou.com", "ks.com"}},
	{model.PlatformXiaohongshu, []string{"xiaohongshu.com", "xhs.com"}},
	{model.PlatformBilibili, []string{"bilibili.com", "b23.tv"}},
	{model.PlatformWeishi, []string{"weishi.qq.com"}},
}

// PlatformDetector 平台检测器
type PlatformDetector struct{}

// NewPlatformDetector 创建平台检测器
func NewPlatformDetector() *PlatformDetector {
	return &PlatformDetector{}
}

// Detect 检测URL所属平台, 未匹配到任何已知域名返回 PlatformUnknown
func (d *PlatformDetector) Detect(rawURL string) model.Platform {
	lower := strings.ToLower(rawURL)

	for _, rule := range rules {
		for _, domain := range rule.domains {
			if strings.Contains(lower, domain) {
				return rule.platform
			}
		}
	}

	return model.PlatformUnknown
}
