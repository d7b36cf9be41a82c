package index

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerms(t *testing.T) {
	got := Terms("Hello, World! a b")
	assert.ElementsMatch(t, []string{"hello", "world", "hello world"}, got)

	assert.Empty(t, Terms("a b c ! ?"))
	assert.Contains(t, Terms("ŽODIS ž"), "žodis")
	assert.NotContains(t, Terms("ŽODIS ž"), "ž")
}

func TestBuild(t *testing.T) {
	texts := []string{
		"the cat sat on the mat",
		"the dog sat on the log",
		"a cat and a dog",
	}
	ix, err := Build(texts, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"cat", "dog", "on", "on the", "sat", "sat on", "the"}, ix.Vocabulary)
	require.Len(t, ix.Rows, 3)
	assert.Positive(t, ix.Pruned)

	for i, row := range ix.Rows {
		sum := 0.0
		for _, w := range row {
			sum += w.Value * w.Value
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "row %d is not unit length", i)
	}

	// Every kept term appears in 2 of 3 documents.
	wantIDF := math.Log(4.0/3.0) + 1
	for _, v := range ix.IDF {
		assert.InDelta(t, wantIDF, v, 1e-12)
	}

	top := ix.Top(2, 5)
	require.Len(t, top, 2)
	assert.Equal(t, "cat", top[0].Term)
	assert.Equal(t, "dog", top[1].Term)
	assert.InDelta(t, top[0].Weight, top[1].Weight, 1e-12)

	// "the" occurs twice in the first document, so it outweighs "cat".
	first := ix.Top(0, 1)
	require.Len(t, first, 1)
	assert.Equal(t, "the", first[0].Term)
}

func TestBuildMaxDF(t *testing.T) {
	var texts []string
	for i := 0; i < 10; i++ {
		texts = append(texts, fmt.Sprintf("common w%c", 'a'+i%5))
	}
	ix, err := Build(texts, DefaultOptions())
	require.NoError(t, err)
	assert.NotContains(t, ix.Vocabulary, "common")
	assert.Contains(t, ix.Vocabulary, "wa")
	assert.Contains(t, ix.Vocabulary, "common wa")
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyVocabulary)

	_, err = Build([]string{"! ?"}, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyVocabulary)

	_, err = Build([]string{"a single chunk of text"}, DefaultOptions())
	assert.ErrorIs(t, err, ErrBounds)

	_, err = Build([]string{"apples oranges", "trains planes", "boats rivers"}, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoTermsRemain)
}

func TestTopBounds(t *testing.T) {
	var ix *Index
	assert.Nil(t, ix.Top(0, 3))

	ix = &Index{Vocabulary: []string{"x"}, Rows: [][]Weight{{{Term: 0, Value: 1}}}}
	assert.Nil(t, ix.Top(1, 3))
	assert.Nil(t, ix.Top(0, 0))
	assert.Len(t, ix.Top(0, 3), 1)
}
