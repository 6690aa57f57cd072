package model

// Platform 视频平台标识
type Platform string

const (
	PlatformDouyin      Platform = "douyin"
	PlatformKuaishou    Platform = "kuaishou"
	PlatformXiaohongshu Platform = "xiaohongshu"
	PlatformBilibili    Platform = "bilibili"
	PlatformWeishi      Platform = "weishi"
	PlatformUnknown     Platform = "unknown"
)

// VideoInfo 数据提取器产出的中间视频信息
// 字段允许为空, 但最终必须给出可下载的 MediaURL 才有意义
type VideoInfo struct {
	Title       string
	Author      string
	DurationSec int64
	MediaURL    string
}

// ParseResult 解析结果, 返回给调用方的唯一数据结构
// 成功时 Success=true 且下载字段完整, 失败时只填 Message/Platform/VideoID
type ParseResult struct {
	Success     bool   `json:"success"`
	Title       string `json:"title,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
	Platform    string `json:"platform,omitempty"`
	VideoID     string `json:"video_id,omitempty"`
	Author      string `json:"author,omitempty"`
	Duration    int64  `json:"duration,omitempty"`
	Size        string `json:"size,omitempty"`
	Filename    string `json:"filename,omitempty"`
	Note        string `json:"note,omitempty"`
	Message     string `json:"message,omitempty"`
}

// NewFailure 构造失败结果
func NewFailure(platform Platform, videoID, message string) *ParseResult {
	result := &ParseResult{
		Success: false,
		VideoID: videoID,
		Message: message,
	}
	if platform != "" && platform != PlatformUnknown {
		result.Platform = string(platform)
	}
	return result
}
