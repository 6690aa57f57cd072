package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractURL(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bare url unchanged",
			text: "https://v.douyin.com/abc123/",
			want: "https://v.douyin.com/abc123/",
		},
		{
			name: "url inside chinese share text",
			text: "这个视频超好笑 https://v.douyin.com/abc123/ 快去看",
			want: "https://v.douyin.com/abc123/",
		},
		{
			name: "trailing chinese punctuation stripped",
			text: "看看这个https://www.douyin.com/video/7123456789012345678！！",
			want: "https://www.douyin.com/video/7123456789012345678",
		},
		{
			name: "trailing latin punctuation stripped",
			text: "check this out: https://www.kuaishou.com/short-video/3x123abc.",
			want: "https://www.kuaishou.com/short-video/3x123abc",
		},
		{
			name: "generic url fallback",
			text: "看 https://example.com/watch?v=42 吧",
			want: "https://example.com/watch?v=42",
		},
		{
			name: "no url returns input",
			text: "这里没有链接",
			want: "这里没有链接",
		},
		{
			name: "surrounding whitespace trimmed",
			text: "  https://b23.tv/abcdef  ",
			want: "https://b23.tv/abcdef",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractURL(tt.text))
		})
	}
}

func TestExtractURLIdempotent(t *testing.T) {
	inputs := []string{
		"这个视频超好笑 https://v.douyin.com/abc123/ 快去看",
		"https://www.xiaohongshu.com/explore/64abcdef，试试",
		"没有链接的文本",
	}

	for _, text := range inputs {
		once := ExtractURL(text)
		assert.Equal(t, once, ExtractURL(once))
	}
}
