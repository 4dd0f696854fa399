package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contextops/context-cli/internal/cache"
)

// handleWith builds an opened-cache handle directly from index entries, which
// is all Resolve reads.
func handleWith(entries ...cache.IndexEntry) *cache.Handle {
	return &cache.Handle{
		Index: cache.Index{
			IndexVersion: 1,
			Documents:    entries,
		},
	}
}

func entry(id string, size int64, words int, terms map[string]int) cache.IndexEntry {
	return cache.IndexEntry{ID: id, SizeBytes: size, WordCount: words, Terms: terms}
}

func TestResolve_ScoresTermCoverage(t *testing.T) {
	h := handleWith(
		entry("a.md", 10, 4, map[string]int{"deployment": 2, "guide": 1, "for": 1}),
		entry("b.md", 10, 3, map[string]int{"hello": 2, "world": 1}),
	)

	res, err := Resolve(h, "deployment guide", 1000)
	require.NoError(t, err)
	require.Len(t, res.Documents, 2)

	require.Equal(t, "a.md", res.Documents[0].ID)
	require.Equal(t, Score(0.75), res.Documents[0].Score)
	require.Equal(t, "b.md", res.Documents[1].ID)
	require.Equal(t, Score(0), res.Documents[1].Score)
}

func TestResolve_TiesBreakOnID(t *testing.T) {
	h := handleWith(
		entry("z.md", 1, 2, map[string]int{"alpha": 1, "beta": 1}),
		entry("a.md", 1, 2, map[string]int{"alpha": 1, "gamma": 1}),
		entry("m.md", 1, 2, map[string]int{"alpha": 1, "delta": 1}),
	)

	res, err := Resolve(h, "alpha", 1000)
	require.NoError(t, err)

	ids := make([]string, 0, len(res.Documents))
	for _, d := range res.Documents {
		ids = append(ids, d.ID)
	}
	require.Equal(t, []string{"a.md", "m.md", "z.md"}, ids)
}

func TestResolve_ZeroWordDocumentScoresZero(t *testing.T) {
	h := handleWith(entry("empty.md", 0, 0, map[string]int{}))

	res, err := Resolve(h, "anything", 100)
	require.NoError(t, err)
	require.Len(t, res.Documents, 1)
	require.Equal(t, Score(0), res.Documents[0].Score)
}

func TestResolve_FirstFitKeepsTryingSmallerDocuments(t *testing.T) {
	// Rank order is big (1.0), huge (0.5), tiny (0.5). The huge document
	// overflows the budget but the tiny one after it still fits.
	h := handleWith(
		entry("big.md", 60, 1, map[string]int{"query": 1}),
		entry("huge.md", 100, 2, map[string]int{"query": 1, "other": 1}),
		entry("tiny.md", 10, 2, map[string]int{"query": 1, "pad": 1}),
	)

	res, err := Resolve(h, "query", 80)
	require.NoError(t, err)

	require.Equal(t, 3, res.Selection.DocumentsConsidered)
	require.Equal(t, 2, res.Selection.DocumentsSelected)
	require.Equal(t, 1, res.Selection.DocumentsExcludedByBudget)
	require.Equal(t, "big.md", res.Documents[0].ID)
	require.Equal(t, "tiny.md", res.Documents[1].ID)
}

func TestResolve_ZeroBudgetSelectsNothing(t *testing.T) {
	h := handleWith(
		entry("a.md", 10, 1, map[string]int{"hello": 1}),
		entry("empty.md", 0, 0, map[string]int{}),
	)

	res, err := Resolve(h, "hello", 0)
	require.NoError(t, err)
	require.Empty(t, res.Documents)
	require.Equal(t, 2, res.Selection.DocumentsConsidered)
	require.Equal(t, 0, res.Selection.DocumentsSelected)
	require.Equal(t, 2, res.Selection.DocumentsExcludedByBudget)
}

func TestResolve_EmptyQueryRanksByID(t *testing.T) {
	h := handleWith(
		entry("b.md", 5, 2, map[string]int{"x": 2}),
		entry("a.md", 5, 2, map[string]int{"y": 2}),
	)

	res, err := Resolve(h, "", 1000)
	require.NoError(t, err)
	require.Len(t, res.Documents, 2)
	require.Equal(t, "a.md", res.Documents[0].ID)
	require.Equal(t, Score(0), res.Documents[0].Score)
	require.Equal(t, "b.md", res.Documents[1].ID)
}

func TestResolve_NegativeBudget(t *testing.T) {
	_, err := Resolve(handleWith(), "q", -1)
	require.ErrorIs(t, err, ErrInvalidBudget)
}

func TestResolve_RepeatedQueryTermsCountOnce(t *testing.T) {
	h := handleWith(entry("a.md", 10, 4, map[string]int{"hello": 2, "world": 2}))

	one, err := Resolve(h, "hello", 100)
	require.NoError(t, err)
	repeated, err := Resolve(h, "hello hello hello", 100)
	require.NoError(t, err)
	require.Equal(t, one.Documents, repeated.Documents)
}

func TestParseBudget(t *testing.T) {
	v, err := ParseBudget("1024")
	require.NoError(t, err)
	require.Equal(t, int64(1024), v)

	for _, bad := range []string{"", "abc", "12abc", "-1", "1.5"} {
		_, err := ParseBudget(bad)
		require.ErrorIs(t, err, ErrInvalidBudget, "input %q", bad)
	}
}
