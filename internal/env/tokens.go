package env

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// TokenEncoding is the encoding used to count prompt tokens.
const TokenEncoding = "cl100k_base"

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
	encodingErr  error
)

// GetTokens returns the number of cl100k_base tokens in text.
// The BPE ranks are embedded, so no network access is needed.
func GetTokens(text string) (int, error) {
	encodingOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
		encoding, encodingErr = tiktoken.GetEncoding(TokenEncoding)
	})
	if encodingErr != nil {
		return 0, fmt.Errorf("failed to load %s encoding: %w", TokenEncoding, encodingErr)
	}

	return len(encoding.Encode(text, nil, nil)), nil
}
