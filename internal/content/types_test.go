package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_TrimsAndFillsSlices(t *testing.T) {
	snap := &Snapshot{
		Profile: &Profile{Name: "  Jordan Rivera  ", Email: " jordan@example.com "},
		Experience: []Experience{
			{Company: "Acme", Role: "Engineer", StartDate: "2022"},
		},
		Projects: []Project{
			{Title: "Weather"},
		},
		Certificates: []Certificate{
			{Title: "Cert", Issuer: "AWS"},
		},
	}

	snap.Normalize()

	assert.Equal(t, "Jordan Rivera", snap.Profile.Name)
	assert.Equal(t, "jordan@example.com", snap.Profile.Email)
	assert.NotNil(t, snap.Experience[0].TechStack)
	assert.NotNil(t, snap.Projects[0].TechStack)
	assert.NotNil(t, snap.Certificates[0].Skills)
}

func TestValidate_CleanSnapshot(t *testing.T) {
	snap := &Snapshot{
		Profile: &Profile{Name: "Jordan", Email: "jordan@example.com"},
		Experience: []Experience{
			{Company: "Acme", Role: "Engineer", StartDate: "2022"},
		},
	}

	assert.Empty(t, snap.Validate())
}

func TestValidate_ReportsMalformedRecords(t *testing.T) {
	snap := &Snapshot{
		Profile: &Profile{Name: "Jordan", Email: "not-an-email"},
		Experience: []Experience{
			{Company: "Acme", Role: "Engineer", StartDate: "2022"},
			{Company: "", Role: "Engineer", StartDate: "2021"},
		},
		Projects: []Project{
			{Title: ""},
		},
	}

	issues := snap.Validate()

	require.Len(t, issues, 3)
	collections := make(map[string]int)
	for _, issue := range issues {
		collections[issue.Collection]++
	}
	assert.Equal(t, 1, collections["profile"])
	assert.Equal(t, 1, collections["experience"])
	assert.Equal(t, 1, collections["projects"])

	// The malformed experience is the second entry.
	for _, issue := range issues {
		if issue.Collection == "experience" {
			assert.Equal(t, 1, issue.Index)
		}
	}
}

func TestCounts(t *testing.T) {
	snap := &Snapshot{
		Experience: make([]Experience, 2),
		Projects:   make([]Project, 3),
		Education:  make([]Education, 1),
	}

	counts := snap.Counts()

	assert.Equal(t, 2, counts["experience"])
	assert.Equal(t, 3, counts["projects"])
	assert.Equal(t, 1, counts["education"])
	assert.Equal(t, 0, counts["certificates"])
}
