package strategy

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vclear/resolver-service/internal/config"
	"vclear/resolver-service/internal/events"
	"vclear/resolver-service/internal/httpclient"
	"vclear/resolver-service/internal/model"
)

const testVideoID = "7123456789012345678"

var testShareHTML = fmt.Sprintf(`<!DOCTYPE html><html><body>
<script>window._ROUTER_DATA = {"loaderData":{"video_(%s)/page":{"videoInfoRes":{"item_list":[{"desc":"funny cat","author":{"nickname":"doro"},"video":{"play_addr":{"url_list":["https://x.com/playwm/v.mp4"]},"duration":15500}}]}}}};</script>
</body></html>`, testVideoID)

const testAPIBody = `{"status_code":0,"item_list":[{"desc":"funny cat","author":{"nickname":"doro"},"video":{"duration":15500,"play_addr":{"url_list":["https://x.com/playwm/v.mp4"]}}}]}`

func testClient() *httpclient.Client {
	return httpclient.New(&config.HTTPConfig{Timeout: 2, MaxRetries: 2, RetryBackoff: 1}, zap.NewNop())
}

func testEndpoints(base string) DouyinEndpoints {
	return DouyinEndpoints{
		ItemInfoAPI:       base + "/api/item?item_ids=%s",
		MobileItemInfoAPI: base + "/m/item?item_ids=%s",
		SharePage:         base + "/share/video/%s/",
	}
}

func attempts(rec *events.Recorder) []events.Event {
	var out []events.Event
	for _, e := range rec.Events() {
		if e.Name == "strategy_attempted" {
			out = append(out, e)
		}
	}
	return out
}

func TestDouyinChainRedirectScrapeSuccess(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/short/abc123", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/video/"+testVideoID, http.StatusFound)
	})
	mux.HandleFunc("/share/video/"+testVideoID+"/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testShareHTML))
	})

	rec := events.NewRecorder()
	chain := NewDouyinChain(testClient(), testEndpoints(srv.URL), rec, zap.NewNop())

	result := chain.Resolve(context.Background(), srv.URL+"/short/abc123")

	require.True(t, result.Success, "message: %s", result.Message)
	assert.Equal(t, "funny cat", result.Title)
	assert.Equal(t, "https://x.com/play/v.mp4", result.DownloadURL)
	assert.Equal(t, "douyin", result.Platform)
	assert.Equal(t, testVideoID, result.VideoID)
	assert.Equal(t, "doro", result.Author)
	assert.EqualValues(t, 16, result.Duration)
	assert.Equal(t, "douyin_"+testVideoID+".mp4", result.Filename)

	att := attempts(rec)
	require.Len(t, att, 1)
	assert.Equal(t, "douyin_redirect_scrape", att[0].Strategy)
	assert.Equal(t, events.OutcomeSuccess, att[0].Outcome)
}

func TestDouyinChainFallsThroughToAPI(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/short/abc123", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/video/"+testVideoID, http.StatusFound)
	})
	// 分享页换了模板, 没有任何已知标记
	mux.HandleFunc("/share/video/"+testVideoID+"/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>brand new layout</body></html>"))
	})
	mux.HandleFunc("/api/item", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testVideoID, r.URL.Query().Get("item_ids"))
		w.Write([]byte(testAPIBody))
	})

	rec := events.NewRecorder()
	chain := NewDouyinChain(testClient(), testEndpoints(srv.URL), rec, zap.NewNop())

	result := chain.Resolve(context.Background(), srv.URL+"/short/abc123")

	require.True(t, result.Success, "message: %s", result.Message)
	assert.Equal(t, "https://x.com/play/v.mp4", result.DownloadURL)

	att := attempts(rec)
	require.Len(t, att, 2)
	assert.Equal(t, "douyin_redirect_scrape", att[0].Strategy)
	assert.Equal(t, events.OutcomeFailure, att[0].Outcome)
	assert.Equal(t, "douyin_official_api", att[1].Strategy)
	assert.Equal(t, events.OutcomeSuccess, att[1].Outcome)
}

func TestDouyinChainAllStrategiesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	rec := events.NewRecorder()
	chain := NewDouyinChain(testClient(), testEndpoints(srv.URL), rec, zap.NewNop())

	result := chain.Resolve(context.Background(), srv.URL+"/short/abc123")

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
	assert.Contains(t, result.Message, "douyin")
	assert.Len(t, attempts(rec), 4)
}

func TestDouyinChainLastResort(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/video/"+testVideoID, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>nothing inline</body></html>"))
	})
	mux.HandleFunc("/share/video/"+testVideoID+"/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>no marker</body></html>"))
	})
	mux.HandleFunc("/m/item", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	// 接口先抽风返回坏数据, 兜底那次才恢复
	var apiCalls int32
	mux.HandleFunc("/api/item", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&apiCalls, 1) == 1 {
			w.Write([]byte("<html>gateway error</html>"))
			return
		}
		w.Write([]byte(testAPIBody))
	})

	rec := events.NewRecorder()
	chain := NewDouyinChain(testClient(), testEndpoints(srv.URL), rec, zap.NewNop())

	result := chain.Resolve(context.Background(), srv.URL+"/video/"+testVideoID)

	require.True(t, result.Success, "message: %s", result.Message)
	assert.Equal(t, "https://x.com/play/v.mp4", result.DownloadURL)
	assert.EqualValues(t, 2, atomic.LoadInt32(&apiCalls))

	att := attempts(rec)
	require.Len(t, att, 5)
	assert.Equal(t, events.OutcomeSuccess, att[4].Outcome)
}

// stubStrategy 固定返回预设结果的假策略
type stubStrategy struct {
	name   string
	result *model.ParseResult
	err    error
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Resolve(ctx context.Context, rawURL string) (*model.ParseResult, error) {
	return s.result, s.err
}

func TestChainRejectsPageURL(t *testing.T) {
	pageResult := &model.ParseResult{
		Success:     true,
		DownloadURL: "https://www.iesdouyin.com/share/video/" + testVideoID + "/",
	}
	directResult := &model.ParseResult{
		Success:     true,
		DownloadURL: "https://cdn.x.com/v/abc.mp4",
		Title:       "ok",
	}

	rec := events.NewRecorder()
	chain := NewChain(model.PlatformDouyin, []Strategy{
		&stubStrategy{name: "page", result: pageResult},
		&stubStrategy{name: "direct", result: directResult},
	}, rec, zap.NewNop())

	result := chain.Resolve(context.Background(), "https://www.douyin.com/video/"+testVideoID)

	require.True(t, result.Success)
	assert.Equal(t, "https://cdn.x.com/v/abc.mp4", result.DownloadURL)

	att := attempts(rec)
	require.Len(t, att, 2)
	assert.Equal(t, events.OutcomeInvalid, att[0].Outcome)
	assert.Equal(t, events.OutcomeSuccess, att[1].Outcome)
}

func TestChainExhaustionNeverPanics(t *testing.T) {
	rec := events.NewRecorder()
	chain := NewChain(model.PlatformDouyin, []Strategy{
		&stubStrategy{name: "a", err: assert.AnError},
		&stubStrategy{name: "b", result: nil},
	}, rec, zap.NewNop())

	result := chain.Resolve(context.Background(), "https://www.douyin.com/video/"+testVideoID)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, testVideoID, result.VideoID)
}

func TestUnsupportedChain(t *testing.T) {
	rec := events.NewRecorder()
	chain := NewUnsupportedChain(model.PlatformBilibili, rec, zap.NewNop())

	result := chain.Resolve(context.Background(), "https://www.bilibili.com/video/BV1xx411c7mD")

	assert.False(t, result.Success)
	assert.Equal(t, "bilibili not yet supported", result.Message)
}
