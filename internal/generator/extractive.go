package generator

import (
	"context"

	"github.com/hyperjump/veritas/internal/models"
	"github.com/hyperjump/veritas/pkg/utils"
)

// DefaultNoAnswer is returned by ExtractiveGenerator when no retrieved sentence matches.
const DefaultNoAnswer = "I don't know. The loaded documents do not seem to cover that."

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true, "were": true,
	"do": true, "does": true, "did": true, "i": true, "you": true, "we": true, "it": true,
	"to": true, "of": true, "in": true, "on": true, "for": true, "and": true, "or": true,
	"what": true, "how": true, "who": true, "when": true, "where": true, "which": true,
	"have": true, "has": true, "can": true, "my": true, "our": true, "your": true, "be": true,
}

// ExtractiveGenerator answers offline with the retrieved sentence sharing the most
// content words with the question. History is not used.
type ExtractiveGenerator struct {
	NoAnswer string
}

// NewExtractiveGenerator returns a generator using DefaultNoAnswer.
func NewExtractiveGenerator() *ExtractiveGenerator {
	return &ExtractiveGenerator{NoAnswer: DefaultNoAnswer}
}

// Generate returns the best-matching sentence. Ties go to the higher-ranked chunk.
func (g *ExtractiveGenerator) Generate(ctx context.Context, question string, chunks []*models.Chunk, _ []models.Turn) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	want := make(map[string]bool)
	for _, t := range utils.Terms(question) {
		if !stopwords[t] {
			want[t] = true
		}
	}
	best, bestScore := "", 0
	for _, ch := range chunks {
		for _, sentence := range utils.Sentences(ch.Text) {
			score := 0
			seen := make(map[string]bool)
			for _, t := range utils.Terms(sentence) {
				if want[t] && !seen[t] {
					score++
					seen[t] = true
				}
			}
			if score > bestScore {
				best, bestScore = sentence, score
			}
		}
	}
	if bestScore == 0 {
		return g.NoAnswer, nil
	}
	return best, nil
}
