package llm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// RemoveThink strips reasoning-trace blocks that thinking models prepend to
// their replies, returning the trimmed remainder.
func RemoveThink(content string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(content, ""))
}

// ParseStringList parses a model reply expected to be a literal list of
// strings, e.g. ["filings", "news"]. Replies using single quotes are
// accepted. Anything that does not contain a parseable list is an
// ErrMalformedReply: the chain treats it as fatal rather than guessing.
func ParseStringList(reply string) ([]string, error) {
	arr, err := parseList(reply)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if v.Type != gjson.String {
			return nil, fmt.Errorf("%w: expected string element, got %s", ErrMalformedReply, v.Raw)
		}
		out = append(out, v.String())
	}
	return out, nil
}

// ParseIntList parses a model reply expected to be a literal list of
// integers, e.g. [0, 2, 3].
func ParseIntList(reply string) ([]int, error) {
	arr, err := parseList(reply)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(arr))
	for _, v := range arr {
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("%w: expected integer element, got %s", ErrMalformedReply, v.Raw)
		}
		out = append(out, int(v.Int()))
	}
	return out, nil
}

func parseList(reply string) ([]gjson.Result, error) {
	text := RemoveThink(reply)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no list found in %q", ErrMalformedReply, truncate(text, 120))
	}
	candidate := text[start : end+1]

	if parsed := gjson.Parse(candidate); gjson.Valid(candidate) && parsed.IsArray() {
		return parsed.Array(), nil
	}
	// Models trained on Python tend to emit single-quoted lists.
	swapped := strings.ReplaceAll(candidate, "'", `"`)
	if parsed := gjson.Parse(swapped); gjson.Valid(swapped) && parsed.IsArray() {
		return parsed.Array(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrMalformedReply, truncate(candidate, 120))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
