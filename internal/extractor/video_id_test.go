package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		wantID string
		wantOK bool
	}{
		{
			name:   "canonical video path",
			url:    "https://www.douyin.com/video/7123456789012345678",
			wantID: "7123456789012345678",
			wantOK: true,
		},
		{
			name:   "item_ids query parameter",
			url:    "https://www.iesdouyin.com/web/api/v2/aweme/iteminfo/?item_ids=7123456789012345678",
			wantID: "7123456789012345678",
			wantOK: true,
		},
		{
			name:   "modal_id query parameter",
			url:    "https://www.douyin.com/discover?modal_id=7001122334455667788",
			wantID: "7001122334455667788",
			wantOK: true,
		},
		{
			name:   "share path",
			url:    "https://www.iesdouyin.com/share/video/7123456789012345678/?region=CN",
			wantID: "7123456789012345678",
			wantOK: true,
		},
		{
			name:   "numeric suffix",
			url:    "https://example.com/v/7123456/",
			wantID: "7123456",
			wantOK: true,
		},
		{
			name:   "long digit run fallback",
			url:    "https://example.com/x?ref=7123456789012345678&kind=a",
			wantID: "7123456789012345678",
			wantOK: true,
		},
		{
			name:   "video path wins over query parameter",
			url:    "https://www.douyin.com/video/7000000000000000001?item_ids=7000000000000000002",
			wantID: "7000000000000000001",
			wantOK: true,
		},
		{
			name:   "short digit run not mistaken for id",
			url:    "https://v.douyin.com/abc12/",
			wantOK: false,
		},
		{
			name:   "no id present",
			url:    "https://v.douyin.com/AbCdEf/",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ExtractVideoID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}
