package service

import (
	"sort"

	"lawdesk_backend/internal/search/domain"
	"lawdesk_backend/internal/search/query"
)

// finalize runs the client-side half of the pipeline: re-derive match tier
// per candidate, drop non-matches, dedupe, partition into exact and fuzzy,
// then rank and cap the fuzzy bucket.
func (s *Service) finalize(q query.Query, candidates []domain.Candidate) Result {
	kept := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		ok, fuzzy := matchQuery(q, c)
		if !ok {
			continue
		}
		c.IsFuzzyMatch = fuzzy
		kept = append(kept, c)
	}

	merged := dedupe(kept)

	exact := make([]domain.Candidate, 0, len(merged))
	fuzzy := make([]domain.Candidate, 0, len(merged))
	for _, c := range merged {
		if c.IsFuzzyMatch {
			fuzzy = append(fuzzy, c)
		} else {
			exact = append(exact, c)
		}
	}

	rankFuzzy(fuzzy, q)
	if len(fuzzy) > s.fuzzyLimit {
		fuzzy = fuzzy[:s.fuzzyLimit]
	}

	return Result{Exact: exact, Fuzzy: fuzzy, All: merged}
}

// dedupe collapses duplicate candidates. Identity is the composite key; two
// further rules cut across keys: a non-contact view of a lead replaces the
// contact view of the same lead, and an exact match replaces its fuzzy twin.
func dedupe(candidates []domain.Candidate) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(candidates))
	byKey := make(map[string]int, len(candidates))
	byEntity := make(map[string]int, len(candidates))
	removed := make(map[int]bool)

	for _, c := range candidates {
		key := c.Key()
		if i, dup := byKey[key]; dup {
			if !c.IsFuzzyMatch && out[i].IsFuzzyMatch {
				out[i] = c
			}
			continue
		}

		entity := c.EntityKey()
		if i, dup := byEntity[entity]; dup && !removed[i] {
			prev := out[i]
			switch {
			case c.IsContact && !prev.IsContact:
				continue
			case !c.IsContact && prev.IsContact:
				removed[i] = true
				delete(byKey, prev.Key())
			case !c.IsFuzzyMatch && prev.IsFuzzyMatch:
				removed[i] = true
				delete(byKey, prev.Key())
			case c.IsFuzzyMatch && !prev.IsFuzzyMatch:
				continue
			}
		}

		byKey[key] = len(out)
		byEntity[entity] = len(out)
		out = append(out, c)
	}

	if len(removed) == 0 {
		return out
	}
	compact := make([]domain.Candidate, 0, len(out)-len(removed))
	for i, c := range out {
		if !removed[i] {
			compact = append(compact, c)
		}
	}
	return compact
}

// MergeSecondary folds the delayed name-only results into a settled result.
// Existing records always win: the secondary pass may only add new fuzzy
// rows, never touch the exact bucket.
func (s *Service) MergeSecondary(base Result, extra []domain.Candidate, q query.Query) Result {
	seen := make(map[string]bool, len(base.All))
	entities := make(map[string]bool, len(base.All))
	for _, c := range base.All {
		seen[c.Key()] = true
		entities[c.EntityKey()] = true
	}

	fuzzy := append([]domain.Candidate(nil), base.Fuzzy...)
	all := append([]domain.Candidate(nil), base.All...)
	for _, c := range extra {
		if seen[c.Key()] || entities[c.EntityKey()] {
			continue
		}
		seen[c.Key()] = true
		entities[c.EntityKey()] = true
		c.IsFuzzyMatch = true
		fuzzy = append(fuzzy, c)
		all = append(all, c)
	}

	rankFuzzy(fuzzy, q)
	if len(fuzzy) > s.fuzzyLimit {
		fuzzy = fuzzy[:s.fuzzyLimit]
	}

	return Result{Exact: base.Exact, Fuzzy: fuzzy, All: all}
}

func rankFuzzy(fuzzy []domain.Candidate, q query.Query) {
	sort.SliceStable(fuzzy, func(i, j int) bool {
		return relevance(fuzzy[i], q) > relevance(fuzzy[j], q)
	})
}
