package douyin

import (
	"encoding/json"
	"fmt"
	"math"

	"vclear/resolver-service/internal/model"
	"vclear/resolver-service/internal/utils"
)

// 抖音上游端点
const (
	ItemInfoAPI       = "https://www.iesdouyin.com/web/api/v2/aweme/iteminfo/?item_ids=%s"
	MobileItemInfoAPI = "https://www.iesdouyin.com/aweme/v1/aweme/iteminfo/?item_ids=%s"
	SharePageURL      = "https://www.iesdouyin.com/share/video/%s/"
)

// 字段缺失时的占位值
const (
	DefaultTitle  = "抖音视频"
	DefaultAuthor = "未知作者"
)

// itemInfoResponse 官方接口的响应信封
// 新老接口分别用 item_list 和 aweme_detail 装条目
type itemInfoResponse struct {
	StatusCode  int       `json:"status_code"`
	ItemList    []apiItem `json:"item_list"`
	AwemeDetail *apiItem  `json:"aweme_detail"`
}

type apiItem struct {
	Desc   string `json:"desc"`
	Author struct {
		Nickname string `json:"nickname"`
	} `json:"author"`
	Video apiVideo `json:"video"`
}

type apiVideo struct {
	PlayAddr     urlList   `json:"play_addr"`
	DownloadAddr urlList   `json:"download_addr"`
	Duration     float64   `json:"duration"` // 毫秒
	BitRate      []bitRate `json:"bit_rate"`
}

type urlList struct {
	URLList []string `json:"url_list"`
}

type bitRate struct {
	BitRate  int64   `json:"bit_rate"`
	PlayAddr urlList `json:"play_addr"`
}

// ParseItemInfo 解析官方接口的JSON响应, 归一成 VideoInfo
func ParseItemInfo(body string) (*model.VideoInfo, error) {
	var resp itemInfoResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode item info response: %w", err)
	}

	var item *apiItem
	switch {
	case len(resp.ItemList) > 0:
		item = &resp.ItemList[0]
	case resp.AwemeDetail != nil:
		item = resp.AwemeDetail
	default:
		return nil, fmt.Errorf("%w: empty item list", utils.ErrEmptyMediaURL)
	}

	mediaURL := pickAPIMediaURL(&item.Video)
	if mediaURL == "" {
		return nil, utils.ErrEmptyMediaURL
	}

	return &model.VideoInfo{
		Title:       orDefault(utils.SanitizeString(item.Desc), DefaultTitle),
		Author:      orDefault(utils.SanitizeString(item.Author.Nickname), DefaultAuthor),
		DurationSec: msToSeconds(item.Video.Duration),
		MediaURL:    mediaURL,
	}, nil
}

// pickAPIMediaURL 选择媒体地址
// 码率列表里取最高码率的首个地址, 其次 play_addr, 最后 download_addr
func pickAPIMediaURL(v *apiVideo) string {
	var best *bitRate
	for i := range v.BitRate {
		if len(v.BitRate[i].PlayAddr.URLList) == 0 {
			continue
		}
		if best == nil || v.BitRate[i].BitRate > best.BitRate {
			best = &v.BitRate[i]
		}
	}
	if best != nil {
		return best.PlayAddr.URLList[0]
	}
	if len(v.PlayAddr.URLList) > 0 {
		return v.PlayAddr.URLList[0]
	}
	if len(v.DownloadAddr.URLList) > 0 {
		return v.DownloadAddr.URLList[0]
	}
	return ""
}

// msToSeconds 毫秒转秒, 四舍五入
func msToSeconds(ms float64) int64 {
	return int64(math.Round(ms / 1000))
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
