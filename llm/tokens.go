package llm

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var encoderOnce = sync.OnceValues(func() (*tiktoken.Tiktoken, error) {
	return tiktoken.GetEncoding("cl100k_base")
})

// EstimateTokens approximates the token count of text with the cl100k_base
// encoding. Used only when a backend omits usage accounting.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	enc, err := encoderOnce()
	if err != nil {
		// Rough heuristic when the encoding tables are unavailable.
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
