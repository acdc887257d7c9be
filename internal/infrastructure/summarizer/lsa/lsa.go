// Package lsa ranks sentences by latent semantic analysis: a smoothed
// term-frequency matrix over stemmed content words is factorized with SVD and
// each sentence is scored by its weight across the leading topics.
package lsa

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kljensen/snowball"
	"gonum.org/v1/gonum/mat"

	"github.com/kirillkom/legalease/internal/core/domain"
)

const (
	defaultSmoothing     = 0.4
	defaultMinDimensions = 3
)

var errEmptyDictionary = errors.New("no content words left after stop-word filtering")

type Options struct {
	Language      string
	StopWords     []string
	Smoothing     float64
	MinDimensions int
}

type Summarizer struct {
	language      string
	stopWords     map[string]struct{}
	smoothing     float64
	minDimensions int
}

func New() *Summarizer {
	s, _ := NewWithOptions(Options{})
	return s
}

// NewWithOptions fails with domain.ErrBackendUnavailable for languages the
// stemmer and stop-word list do not cover.
func NewWithOptions(options Options) (*Summarizer, error) {
	language := strings.ToLower(strings.TrimSpace(options.Language))
	if language == "" {
		language = "english"
	}
	if language != "english" {
		return nil, domain.WrapError(domain.ErrBackendUnavailable, "lsa summarizer", fmt.Errorf("language %q is not supported", language))
	}

	words := options.StopWords
	if len(words) == 0 {
		words = englishStopWords
	}
	stopWords := make(map[string]struct{}, len(words))
	for _, w := range words {
		stopWords[strings.ToLower(w)] = struct{}{}
	}

	smoothing := options.Smoothing
	if smoothing <= 0 || smoothing >= 1 {
		smoothing = defaultSmoothing
	}
	minDimensions := options.MinDimensions
	if minDimensions <= 0 {
		minDimensions = defaultMinDimensions
	}

	return &Summarizer{
		language:      language,
		stopWords:     stopWords,
		smoothing:     smoothing,
		minDimensions: minDimensions,
	}, nil
}

// Summarize returns the count best-ranked sentences in document order.
func (s *Summarizer) Summarize(text string, count int) (out []string, err error) {
	if count <= 0 {
		return nil, fmt.Errorf("lsa: sentence count must be positive, got %d", count)
	}
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil, errors.New("lsa: no sentences found")
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("lsa: matrix factorization panicked: %v", r)
		}
	}()

	dictionary := s.buildDictionary(sentences)
	if len(dictionary) == 0 {
		return nil, errEmptyDictionary
	}

	matrix := s.termFrequencies(sentences, dictionary)
	ranks, err := s.rankSentences(matrix)
	if err != nil {
		return nil, err
	}
	return pickBest(sentences, ranks, count), nil
}

func (s *Summarizer) stem(word string) string {
	stemmed, err := snowball.Stem(word, s.language, true)
	if err != nil {
		return word
	}
	return stemmed
}

func (s *Summarizer) buildDictionary(sentences []sentence) map[string]int {
	dictionary := make(map[string]int)
	for _, sent := range sentences {
		for _, word := range sent.words {
			if _, stop := s.stopWords[word]; stop {
				continue
			}
			stem := s.stem(word)
			if _, ok := dictionary[stem]; !ok {
				dictionary[stem] = len(dictionary)
			}
		}
	}
	return dictionary
}

// termFrequencies builds the words x sentences matrix with each column scaled
// by its maximum count and smoothed towards the smoothing floor.
func (s *Summarizer) termFrequencies(sentences []sentence, dictionary map[string]int) *mat.Dense {
	rows, cols := len(dictionary), len(sentences)
	matrix := mat.NewDense(rows, cols, nil)
	for col, sent := range sentences {
		for _, word := range sent.words {
			if row, ok := dictionary[s.stem(word)]; ok {
				matrix.Set(row, col, matrix.At(row, col)+1)
			}
		}
	}

	for col := 0; col < cols; col++ {
		maxFreq := 0.0
		for row := 0; row < rows; row++ {
			maxFreq = math.Max(maxFreq, matrix.At(row, col))
		}
		if maxFreq == 0 {
			continue
		}
		for row := 0; row < rows; row++ {
			freq := matrix.At(row, col) / maxFreq
			matrix.Set(row, col, s.smoothing+(1-s.smoothing)*freq)
		}
	}
	return matrix
}

func (s *Summarizer) rankSentences(matrix *mat.Dense) ([]float64, error) {
	var svd mat.SVD
	if ok := svd.Factorize(matrix, mat.SVDThin); !ok {
		return nil, errors.New("lsa: svd factorization failed")
	}
	sigma := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	dimensions := max(s.minDimensions, len(sigma))
	powered := make([]float64, len(sigma))
	for i, value := range sigma {
		if i < dimensions {
			powered[i] = value * value
		}
	}

	sentencesN, _ := v.Dims()
	ranks := make([]float64, sentencesN)
	for j := 0; j < sentencesN; j++ {
		rank := 0.0
		for i, weight := range powered {
			component := v.At(j, i)
			rank += weight * component * component
		}
		ranks[j] = math.Sqrt(rank)
	}
	return ranks, nil
}

func pickBest(sentences []sentence, ranks []float64, count int) []string {
	order := make([]int, len(sentences))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return ranks[order[a]] > ranks[order[b]]
	})
	if count < len(order) {
		order = order[:count]
	}
	sort.Ints(order)

	out := make([]string, 0, len(order))
	for _, idx := range order {
		out = append(out, sentences[idx].text)
	}
	return out
}
