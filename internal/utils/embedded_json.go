package utils

import (
	"fmt"
	"strings"
)

// ExtractEmbeddedJSON 从HTML中提取 marker 之后的第一个完整JSON对象
// 典型形态: <script>window._ROUTER_DATA = {...}</script>
// marker 未命中返回 ErrMarkerNotFound, 花括号不配对视为页面被截断
func ExtractEmbeddedJSON(html, marker string) (string, error) {
	idx := strings.Index(html, marker)
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrMarkerNotFound, marker)
	}

	start := strings.IndexByte(html[idx:], '{')
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON object after %s", ErrMarkerNotFound, marker)
	}
	start += idx

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(html); i++ {
		c := html[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return html[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("%w: unbalanced JSON after %s", ErrMarkerNotFound, marker)
}
