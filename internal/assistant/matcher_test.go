package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-assistant/internal/content"
)

func TestFuzzy_ContainmentScoresOne(t *testing.T) {
	assert.Equal(t, 1.0, Fuzzy("react", "react native", fuzzyThreshold))
	assert.Equal(t, 1.0, Fuzzy("react native", "react", fuzzyThreshold))
	assert.Equal(t, 1.0, Fuzzy("REACT", "react", fuzzyThreshold))
}

func TestFuzzy_Reflexive(t *testing.T) {
	for _, s := range []string{"go", "react", "weather dashboard"} {
		assert.Equal(t, 1.0, Fuzzy(s, s, fuzzyThreshold))
	}
}

func TestFuzzy_BelowThresholdCollapsesToZero(t *testing.T) {
	// Entirely different strings share few positional characters.
	assert.Equal(t, 0.0, Fuzzy("python", "haskell", fuzzyThreshold))
}

func TestFuzzy_PositionalSimilarity(t *testing.T) {
	// "reacr" vs "react": 4 of 5 positions match, 0.8 >= threshold.
	assert.InDelta(t, 0.8, Fuzzy("reacr", "react", fuzzyThreshold), 0.001)
}

func TestFuzzy_EmptyInputs(t *testing.T) {
	assert.Equal(t, 0.0, Fuzzy("", "react", fuzzyThreshold))
	assert.Equal(t, 0.0, Fuzzy("react", "", fuzzyThreshold))
}

func TestMatch_ExactContainmentOutranksFuzzy(t *testing.T) {
	snap := testSnapshot()
	a := Analyze("tell me about the weather project", snap)

	results := Match(a, ProjectRecords(snap.Projects), []string{"title", "description"})

	require.NotEmpty(t, results)
	top := results[0].Record.(ProjectRecord)
	assert.Equal(t, "Weather Dashboard", top.Title)
	assert.Contains(t, results[0].Keywords, "weather")
}

func TestMatch_ShortTokensIgnored(t *testing.T) {
	snap := testSnapshot()
	// All tokens have length <= 2, so nothing can score.
	a := Analyze("is it a go ui", snap)

	results := Match(a, ProjectRecords(snap.Projects), []string{"title", "description"})
	assert.Empty(t, results)
}

func TestMatch_TechTagScoring(t *testing.T) {
	snap := testSnapshot()
	a := Analyze("show me firebase work", snap)

	results := Match(a, ProjectRecords(snap.Projects), []string{"title", "description"})

	require.NotEmpty(t, results)
	top := results[0].Record.(ProjectRecord)
	assert.Equal(t, "Task Tracker", top.Title)
	assert.Contains(t, results[0].Keywords, "Firebase")
}

func TestMatch_TagScoreRepeatsPerField(t *testing.T) {
	projects := []content.Project{{Title: "Dashboard", TechStack: []string{"Firebase"}}}
	experience := []content.Experience{{Company: "Acme", TechStack: []string{"Firebase"}}}
	a := Analyze("firebase", &content.Snapshot{Projects: projects, Experience: experience})

	projResults := Match(a, ProjectRecords(projects), []string{"title", "description"})
	expResults := Match(a, ExperienceRecords(experience), []string{"company", "role", "description"})

	require.Len(t, projResults, 1)
	require.Len(t, expResults, 1)
	// 4 points per tag hit, once per queried field: two project fields,
	// three experience fields.
	assert.Equal(t, 8.0, projResults[0].Score)
	assert.Equal(t, 12.0, expResults[0].Score)
}

func TestMatch_OnlyPositiveScoresReturned(t *testing.T) {
	snap := testSnapshot()
	a := Analyze("completely unrelated gibberish zzz", snap)

	results := Match(a, ProjectRecords(snap.Projects), []string{"title", "description"})
	for _, r := range results {
		assert.Greater(t, r.Score, 0.0)
	}
}

func TestMatch_StableOrderOnTies(t *testing.T) {
	projects := []content.Project{
		{ID: "a", Title: "Alpha Client", Description: "shared keyword banana"},
		{ID: "b", Title: "Beta Client", Description: "shared keyword banana"},
		{ID: "c", Title: "Gamma Client", Description: "shared keyword banana"},
	}
	a := Analyze("tell me about banana", &content.Snapshot{Projects: projects})

	first := Match(a, ProjectRecords(projects), []string{"title", "description"})
	second := Match(a, ProjectRecords(projects), []string{"title", "description"})

	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, first[i].Record.(ProjectRecord).ID, second[i].Record.(ProjectRecord).ID)
	}
	// Equal scores keep supplied record order.
	assert.Equal(t, "a", first[0].Record.(ProjectRecord).ID)
	assert.Equal(t, "b", first[1].Record.(ProjectRecord).ID)
	assert.Equal(t, "c", first[2].Record.(ProjectRecord).ID)
}

func TestMatch_KeywordsDeduplicated(t *testing.T) {
	projects := []content.Project{
		{ID: "a", Title: "banana banana", Description: "banana again"},
	}
	a := Analyze("banana please", &content.Snapshot{Projects: projects})

	results := Match(a, ProjectRecords(projects), []string{"title", "description"})

	require.Len(t, results, 1)
	count := 0
	for _, kw := range results[0].Keywords {
		if kw == "banana" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestMatch_EducationFields(t *testing.T) {
	snap := testSnapshot()
	a := Analyze("the computer science degree", snap)

	results := Match(a, EducationRecords(snap.Education), []string{"institution", "degree", "field", "description"})

	require.NotEmpty(t, results)
	assert.Equal(t, "State University", results[0].Record.(EducationRecord).Institution)
}
