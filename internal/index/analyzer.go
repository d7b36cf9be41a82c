package index

import (
	"regexp"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/shingle"
	regexptokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
)

// termPattern matches runs of two or more letters, digits or underscores.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// newAnalyzer returns the chain used for every chunk: term tokenizer,
// lowercase, then adjacent-pair shingles emitted alongside the unigrams.
func newAnalyzer() *analysis.DefaultAnalyzer {
	return &analysis.DefaultAnalyzer{
		Tokenizer: regexptokenizer.NewRegexpTokenizer(termPattern),
		TokenFilters: []analysis.TokenFilter{
			lowercase.NewLowerCaseFilter(),
			shingle.NewShingleFilter(2, 2, true, " ", "_"),
		},
	}
}

// Terms returns the unigram and bigram terms of text in stream order.
func Terms(text string) []string {
	return terms(newAnalyzer(), text)
}

func terms(a *analysis.DefaultAnalyzer, text string) []string {
	stream := a.Analyze([]byte(text))
	out := make([]string, 0, len(stream))
	for _, tok := range stream {
		out = append(out, string(tok.Term))
	}
	return out
}
