package embedding

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sugarme/tokenizer"
)

// fakeEncoder returns a fixed encoding shaped like BERT output: [CLS] ... [SEP].
type fakeEncoder struct {
	ids []int
	err error
}

func (f *fakeEncoder) EncodeSingle(string, ...bool) (*tokenizer.Encoding, error) {
	if f.err != nil {
		return nil, f.err
	}
	mask := make([]int, len(f.ids))
	for i := range mask {
		mask[i] = 1
	}
	return &tokenizer.Encoding{Ids: f.ids, TypeIds: make([]int, len(f.ids)), AttentionMask: mask}, nil
}

func TestWordPieceTokenizer_Tokenize(t *testing.T) {
	tests := []struct {
		name     string
		ids      []int
		max      int
		wantIDs  []int64
		wantMask []int64
	}{
		{
			name:     "pads",
			ids:      []int{101, 25416, 102},
			max:      6,
			wantIDs:  []int64{101, 25416, 102, 0, 0, 0},
			wantMask: []int64{1, 1, 1, 0, 0, 0},
		},
		{
			name:     "exact fit",
			ids:      []int{101, 7, 8, 102},
			max:      4,
			wantIDs:  []int64{101, 7, 8, 102},
			wantMask: []int64{1, 1, 1, 1},
		},
		{
			name:     "truncates and keeps SEP",
			ids:      []int{101, 1, 2, 3, 4, 5, 102},
			max:      4,
			wantIDs:  []int64{101, 1, 2, 102},
			wantMask: []int64{1, 1, 1, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := &WordPieceTokenizer{enc: &fakeEncoder{ids: tt.ids}}
			ids, mask, types, err := tok.Tokenize("refund policy", tt.max)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
			if !reflect.DeepEqual(mask, tt.wantMask) {
				t.Errorf("mask = %v, want %v", mask, tt.wantMask)
			}
			if len(types) != tt.max {
				t.Errorf("len(types) = %d, want %d", len(types), tt.max)
			}
		})
	}
}

func TestWordPieceTokenizer_defaultMax(t *testing.T) {
	tok := &WordPieceTokenizer{enc: &fakeEncoder{ids: []int{101, 102}}}
	ids, _, _, err := tok.Tokenize("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != defaultMaxTokens {
		t.Errorf("len(ids) = %d, want %d", len(ids), defaultMaxTokens)
	}
}

func TestWordPieceTokenizer_encodeError(t *testing.T) {
	boom := errors.New("boom")
	tok := &WordPieceTokenizer{enc: &fakeEncoder{err: boom}}
	if _, _, _, err := tok.Tokenize("x", 8); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestLoadTokenizer_missingFile(t *testing.T) {
	if _, err := LoadTokenizer(filepath.Join(t.TempDir(), "tokenizer.json")); err == nil {
		t.Error("expected error for missing tokenizer.json")
	}
}
