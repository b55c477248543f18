package assistant

import (
	"sort"
	"strings"

	"github.com/jonathan/portfolio-assistant/internal/content"
)

// Record is the matcher's view of one portfolio entry: named text fields
// plus technology tags.
type Record interface {
	Field(name string) string
	Tags() []string
}

// ProjectRecord adapts a content.Project for matching.
type ProjectRecord struct{ *content.Project }

// Field returns the named text field, empty for unknown names.
func (r ProjectRecord) Field(name string) string {
	switch name {
	case "title":
		return r.Title
	case "description":
		return r.Description
	}
	return ""
}

// Tags returns the project's tech stack.
func (r ProjectRecord) Tags() []string { return r.TechStack }

// ExperienceRecord adapts a content.Experience for matching.
type ExperienceRecord struct{ *content.Experience }

// Field returns the named text field, empty for unknown names.
func (r ExperienceRecord) Field(name string) string {
	switch name {
	case "company":
		return r.Company
	case "role":
		return r.Role
	case "description":
		return r.Description
	}
	return ""
}

// Tags returns the position's tech stack.
func (r ExperienceRecord) Tags() []string { return r.TechStack }

// EducationRecord adapts a content.Education for matching.
type EducationRecord struct{ *content.Education }

// Field returns the named text field, empty for unknown names.
func (r EducationRecord) Field(name string) string {
	switch name {
	case "institution":
		return r.Institution
	case "degree":
		return r.Degree
	case "field":
		return r.Education.Field
	case "description":
		return r.Description
	}
	return ""
}

// Tags returns nil; education entries carry no tech tags.
func (r EducationRecord) Tags() []string { return nil }

// ProjectRecords wraps a project slice for the matcher.
func ProjectRecords(ps []content.Project) []Record {
	out := make([]Record, len(ps))
	for i := range ps {
		out[i] = ProjectRecord{&ps[i]}
	}
	return out
}

// ExperienceRecords wraps an experience slice for the matcher.
func ExperienceRecords(xs []content.Experience) []Record {
	out := make([]Record, len(xs))
	for i := range xs {
		out[i] = ExperienceRecord{&xs[i]}
	}
	return out
}

// EducationRecords wraps an education slice for the matcher.
func EducationRecords(es []content.Education) []Record {
	out := make([]Record, len(es))
	for i := range es {
		out[i] = EducationRecord{&es[i]}
	}
	return out
}

// MatchResult pairs a record with its relevance score and the keywords that
// produced it.
type MatchResult struct {
	Record   Record
	Score    float64
	Keywords []string
}

// fuzzyThreshold gates the positional similarity heuristic.
const fuzzyThreshold = 0.6

// Fuzzy scores the similarity of two strings in [0, 1]. Containment in
// either direction scores 1. Otherwise characters are compared position by
// position up to the shorter length and the match count is normalized by the
// longer length; results below threshold collapse to 0.
//
// This is a cheap positional heuristic, not edit distance: it tolerates
// trailing typos but underscores transpositions and shifted alignments
// ("raect" vs "react" scores poorly). Kept for its threshold-gated contract;
// the scoring weights in Match are tuned against it.
func Fuzzy(query, target string, threshold float64) float64 {
	q := strings.ToLower(query)
	t := strings.ToLower(target)
	if q == "" || t == "" {
		return 0
	}
	if strings.Contains(t, q) || strings.Contains(q, t) {
		return 1
	}

	maxLen := len(q)
	if len(t) > maxLen {
		maxLen = len(t)
	}
	shorter := len(q)
	if len(t) < shorter {
		shorter = len(t)
	}

	matches := 0
	for i := 0; i < shorter; i++ {
		if q[i] == t[i] {
			matches++
		}
	}

	similarity := float64(matches) / float64(maxLen)
	if similarity >= threshold {
		return similarity
	}
	return 0
}

// Match scores every record against the analysis tokens over the named
// fields. Only records with positive scores are returned, sorted descending
// by score; ties keep the original record order.
//
// Scoring per token (length > 2 only): substring containment in either
// direction earns 3 and records the token as a keyword; otherwise a fuzzy
// similarity above threshold earns similarity*2. Each tech tag sharing a
// substring relationship with a token earns 4 and records the tag; tag
// scoring repeats for every queried field, so tagged records are weighted
// by the field count.
func Match(a *Analysis, records []Record, fields []string) []MatchResult {
	var results []MatchResult

	for _, rec := range records {
		score := 0.0
		var keywords []string
		seen := make(map[string]bool)

		addKeyword := func(kw string) {
			if !seen[kw] {
				seen[kw] = true
				keywords = append(keywords, kw)
			}
		}

		for _, field := range fields {
			value := strings.ToLower(rec.Field(field))

			for _, tok := range a.Tokens {
				if len(tok) <= 2 || value == "" {
					continue
				}
				if strings.Contains(value, tok) || strings.Contains(tok, value) {
					score += 3
					addKeyword(tok)
					continue
				}
				if sim := Fuzzy(tok, value, fuzzyThreshold); sim > 0 {
					score += sim * 2
				}
			}

			for _, tag := range rec.Tags() {
				lower := strings.ToLower(tag)
				for _, tok := range a.Tokens {
					if len(tok) <= 2 {
						continue
					}
					if strings.Contains(lower, tok) || strings.Contains(tok, lower) {
						score += 4
						addKeyword(tag)
					}
				}
			}
		}

		if score > 0 {
			results = append(results, MatchResult{Record: rec, Score: score, Keywords: keywords})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
