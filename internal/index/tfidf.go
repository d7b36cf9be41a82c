// Package index computes a unigram and bigram TF-IDF representation of chunk texts.
package index

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	// ErrEmptyVocabulary is returned when the input holds no terms at all.
	ErrEmptyVocabulary = errors.New("empty vocabulary")
	// ErrNoTermsRemain is returned when document frequency pruning removes every term.
	ErrNoTermsRemain = errors.New("no terms remain after pruning")
	// ErrBounds is returned when the MaxDF threshold falls below MinDF.
	ErrBounds = errors.New("maxDF corresponds to fewer documents than minDF")
)

// Options bounds the document frequency of kept terms.
type Options struct {
	// MaxDF drops terms present in more than this fraction of documents.
	MaxDF float64
	// MinDF drops terms present in fewer than this many documents.
	MinDF int
}

// DefaultOptions returns MaxDF 0.9 and MinDF 2.
func DefaultOptions() Options {
	return Options{MaxDF: 0.9, MinDF: 2}
}

// Weight is one non-zero cell of a document row.
type Weight struct {
	Term  int
	Value float64
}

// TermWeight pairs a vocabulary term with its weight in one document.
type TermWeight struct {
	Term   string
	Weight float64
}

// Index holds the sorted vocabulary, its IDF values and one L2-normalized
// sparse row per input document.
type Index struct {
	Vocabulary []string
	IDF        []float64
	Rows       [][]Weight
	// Pruned counts the terms removed by document frequency bounds.
	Pruned int
}

// Build counts terms per document, prunes them by document frequency and
// weights the remainder by smoothed IDF, ln((1+n)/(1+df)) + 1.
func Build(texts []string, opts Options) (*Index, error) {
	analyzer := newAnalyzer()

	counts := make([]map[string]int, len(texts))
	df := make(map[string]int)
	for i, text := range texts {
		tf := make(map[string]int)
		for _, term := range terms(analyzer, text) {
			tf[term]++
		}
		for term := range tf {
			df[term]++
		}
		counts[i] = tf
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	n := len(texts)
	maxDocs := opts.MaxDF * float64(n)
	if maxDocs < float64(opts.MinDF) {
		return nil, fmt.Errorf("%w: %d documents, maxDF %.2f, minDF %d", ErrBounds, n, opts.MaxDF, opts.MinDF)
	}

	vocab := make([]string, 0, len(df))
	for term, d := range df {
		if float64(d) > maxDocs || d < opts.MinDF {
			continue
		}
		vocab = append(vocab, term)
	}
	if len(vocab) == 0 {
		return nil, ErrNoTermsRemain
	}
	sort.Strings(vocab)

	ids := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	for i, term := range vocab {
		ids[term] = i
		idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	rows := make([][]Weight, n)
	for i, tf := range counts {
		row := make([]Weight, 0, len(tf))
		norm := 0.0
		for term, c := range tf {
			id, ok := ids[term]
			if !ok {
				continue
			}
			v := float64(c) * idf[id]
			row = append(row, Weight{Term: id, Value: v})
			norm += v * v
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j].Value /= norm
			}
		}
		sort.Slice(row, func(a, b int) bool { return row[a].Term < row[b].Term })
		rows[i] = row
	}

	return &Index{
		Vocabulary: vocab,
		IDF:        idf,
		Rows:       rows,
		Pruned:     len(df) - len(vocab),
	}, nil
}

// Top returns up to n of the highest weighted terms of document row,
// breaking ties alphabetically.
func (ix *Index) Top(row, n int) []TermWeight {
	if ix == nil || row < 0 || row >= len(ix.Rows) || n <= 0 {
		return nil
	}
	out := make([]TermWeight, 0, len(ix.Rows[row]))
	for _, w := range ix.Rows[row] {
		out = append(out, TermWeight{Term: ix.Vocabulary[w.Term], Weight: w.Value})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Term < out[j].Term
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
