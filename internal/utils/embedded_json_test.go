package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEmbeddedJSON(t *testing.T) {
	html := `<html><script>window.pageData = {"videoInfo":{"title":"测试{标题}","src":"https://a/b.mp4"}};</script></html>`

	raw, err := ExtractEmbeddedJSON(html, "window.pageData")
	require.NoError(t, err)
	assert.Equal(t, `{"videoInfo":{"title":"测试{标题}","src":"https://a/b.mp4"}}`, raw)
}

func TestExtractEmbeddedJSONBracesInsideStrings(t *testing.T) {
	html := `window.data = {"a":"}{","b":"\"}","c":1}`

	raw, err := ExtractEmbeddedJSON(html, "window.data")
	require.NoError(t, err)
	assert.Equal(t, `{"a":"}{","b":"\"}","c":1}`, raw)
}

func TestExtractEmbeddedJSONMarkerMissing(t *testing.T) {
	_, err := ExtractEmbeddedJSON("<html>nothing here</html>", "window.pageData")
	assert.ErrorIs(t, err, ErrMarkerNotFound)
}

func TestExtractEmbeddedJSONUnbalanced(t *testing.T) {
	_, err := ExtractEmbeddedJSON(`window.pageData = {"a": {"b": 1}`, "window.pageData")
	assert.ErrorIs(t, err, ErrMarkerNotFound)
}
