// Package exclusivity flags brand deals whose free-text exclusivity
// clauses appear to overlap.
//
// This is a best-effort heuristic over shared keywords, not a
// correctness guarantee: it exists to prompt a human review, and it is
// kept isolated from the sync and versioning core on purpose.
package exclusivity

import (
	"sort"
	"strings"

	"github.com/hyphenhq/hyphen/internal/models"
)

// minKeywordLen excludes short filler words from the comparison.
const minKeywordLen = 4

// Warning names a pair of deals with apparently overlapping clauses.
type Warning struct {
	DealID         string
	OtherDealID    string
	SharedKeywords []string
}

// Keywords lowercases a clause and extracts its candidate keywords.
func Keywords(clause string) []string {
	fields := strings.FieldsFunc(strings.ToLower(clause), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	seen := make(map[string]struct{})
	var result []string
	for _, f := range fields {
		if len(f) < minKeywordLen {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		result = append(result, f)
	}
	return result
}

// shared returns the sorted intersection of two keyword sets.
func shared(a, b []string) []string {
	set := make(map[string]struct{}, len(a))
	for _, k := range a {
		set[k] = struct{}{}
	}
	var result []string
	for _, k := range b {
		if _, ok := set[k]; ok {
			result = append(result, k)
		}
	}
	sort.Strings(result)
	return result
}

// FindConflicts compares candidate against existing deals and returns a
// warning per apparent clause overlap. Deals without a clause never
// conflict.
func FindConflicts(candidate *models.BrandDeal, existing []*models.BrandDeal) []Warning {
	if candidate.ExclusivityClause == "" {
		return nil
	}
	candidateKeywords := Keywords(candidate.ExclusivityClause)

	var warnings []Warning
	for _, other := range existing {
		if other.ID == candidate.ID || other.ExclusivityClause == "" {
			continue
		}
		common := shared(candidateKeywords, Keywords(other.ExclusivityClause))
		if len(common) == 0 {
			continue
		}
		warnings = append(warnings, Warning{
			DealID:         candidate.ID,
			OtherDealID:    other.ID,
			SharedKeywords: common,
		})
	}
	return warnings
}
