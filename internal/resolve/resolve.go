// Package resolve ranks the documents of an opened cache against a query and
// selects a budget-constrained subset.
package resolve

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/contextops/context-cli/internal/cache"
	"github.com/contextops/context-cli/internal/source"
)

var (
	// ErrInvalidQuery is returned for malformed query parameters.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidBudget is returned for a negative or unparsable budget.
	ErrInvalidBudget = errors.New("invalid budget")
)

// ScoredDocument is one ranked document in a selection result.
type ScoredDocument struct {
	ID    string `json:"id"`
	Score Score  `json:"score"`
}

// SelectionStats counts the outcome of budget selection. considered always
// equals selected plus excluded.
type SelectionStats struct {
	DocumentsConsidered       int `json:"documents_considered"`
	DocumentsSelected         int `json:"documents_selected"`
	DocumentsExcludedByBudget int `json:"documents_excluded_by_budget"`
}

// Result is the outcome of resolving a query against a cache. Documents holds
// only the selected entries, non-increasing by score and, within equal
// scores, strictly increasing by id.
type Result struct {
	Documents []ScoredDocument `json:"documents"`
	Selection SelectionStats   `json:"selection"`
}

// Resolve scores every document in the cache against the query, orders them
// by (score desc, id asc), and greedily selects documents whose payload sizes
// fit the remaining budget.
//
// Scoring is a raw term-coverage ratio: the fraction of a document's words
// that belong to the query term set, computed as a 32-bit float. A document
// with zero words scores 0.0. An empty query is valid; every document scores
// 0.0 and ranking degenerates to id order.
//
// Selection is first-fit in rank order with no backtracking: a document that
// does not fit is excluded, but later smaller documents are still attempted.
// Zero-score documents participate like any other. A budget of zero selects
// nothing, zero-sized documents included.
func Resolve(h *cache.Handle, query string, budget int64) (*Result, error) {
	if budget < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBudget, budget)
	}

	terms := source.TermSet(query)

	type candidate struct {
		id    string
		score float32
		size  int64
	}
	ranked := make([]candidate, 0, len(h.Index.Documents))
	for _, e := range h.Index.Documents {
		matches := 0
		for term := range terms {
			matches += e.Terms[term]
		}
		var score float32
		if e.WordCount > 0 {
			score = float32(matches) / float32(e.WordCount)
		}
		ranked = append(ranked, candidate{id: e.ID, score: score, size: e.SizeBytes})
	}

	// Ties break purely lexicographically on id, never on manifest order.
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})

	result := &Result{
		Documents: make([]ScoredDocument, 0, len(ranked)),
		Selection: SelectionStats{DocumentsConsidered: len(ranked)},
	}
	var used int64
	for _, c := range ranked {
		if budget > 0 && used+c.size <= budget {
			result.Documents = append(result.Documents, ScoredDocument{ID: c.id, Score: Score(c.score)})
			result.Selection.DocumentsSelected++
			used += c.size
		} else {
			result.Selection.DocumentsExcludedByBudget++
		}
	}
	return result, nil
}

// ParseBudget converts a CLI budget argument to the numeric budget Resolve
// expects, rejecting negative or unparsable values with ErrInvalidBudget.
func ParseBudget(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBudget, s)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBudget, v)
	}
	return v, nil
}
