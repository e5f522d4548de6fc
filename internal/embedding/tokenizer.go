package embedding

import (
	"fmt"
	"os"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

const defaultMaxTokens = 256

// Tokenizer produces token IDs for BERT-style models (input_ids, attention_mask, token_type_ids).
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64, err error)
}

// encoder is the part of *tokenizer.Tokenizer used here.
type encoder interface {
	EncodeSingle(input string, addSpecialTokensOpt ...bool) (*tokenizer.Encoding, error)
}

// WordPieceTokenizer encodes text with the vocabulary, normalizer and
// [CLS]/[SEP] template shipped in a Hugging Face tokenizer.json.
type WordPieceTokenizer struct {
	enc encoder
}

// LoadTokenizer reads a tokenizer.json exported alongside the ONNX model.
func LoadTokenizer(path string) (*WordPieceTokenizer, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", path, err)
	}
	return &WordPieceTokenizer{enc: tk}, nil
}

// Tokenize encodes text with special tokens and pads or truncates the result to
// exactly maxTokens positions. Truncation keeps the final [SEP].
func (t *WordPieceTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64, err error) {
	if maxTokens <= 2 {
		maxTokens = defaultMaxTokens
	}
	en, err := t.enc.EncodeSingle(text, true)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("tokenize: %w", err)
	}
	mask := en.AttentionMask
	if len(mask) == 0 {
		mask = make([]int, len(en.Ids))
		for i := range mask {
			mask[i] = 1
		}
	}
	return fit(en.Ids, maxTokens), fit(mask, maxTokens), fit(en.TypeIds, maxTokens), nil
}

// fit copies src into a zero-padded slice of length n. When src is longer,
// the first n-1 values are kept followed by src's last value.
func fit(src []int, n int) []int64 {
	out := make([]int64, n)
	if len(src) <= n {
		for i, v := range src {
			out[i] = int64(v)
		}
		return out
	}
	for i := 0; i < n-1; i++ {
		out[i] = int64(src[i])
	}
	out[n-1] = int64(src[len(src)-1])
	return out
}
