package assistant

import (
	"github.com/jonathan/portfolio-assistant/internal/content"
	"go.uber.org/zap"
)

// testSnapshot builds the portfolio fixture shared across the package tests.
func testSnapshot() *content.Snapshot {
	return &content.Snapshot{
		Profile: &content.Profile{
			Name:     "Jordan Rivera",
			Headline: "Full-Stack Developer",
			Bio:      "Building web applications with a focus on clean APIs.",
			Email:    "jordan@example.com",
			GitHub:   "https://github.com/jordanr",
			LinkedIn: "https://linkedin.com/in/jordanr",
		},
		Experience: []content.Experience{
			{
				ID:          "exp-1",
				Company:     "Acme Corp",
				Role:        "Senior Engineer",
				StartDate:   "Jan 2022",
				EndDate:     "",
				Description: "Leading the platform team building internal services.",
				TechStack:   []string{"Go", "PostgreSQL", "Docker"},
			},
			{
				ID:          "exp-2",
				Company:     "Initech",
				Role:        "Software Engineer",
				StartDate:   "Jun 2019",
				EndDate:     "Dec 2021",
				Description: "Built customer-facing dashboards and reporting tools.",
				TechStack:   []string{"React", "Node", "MongoDB"},
			},
		},
		Projects: []content.Project{
			{
				ID:          "proj-1",
				Title:       "Weather Dashboard",
				Description: "A real-time weather dashboard with interactive maps.",
				TechStack:   []string{"React", "TypeScript", "Tailwind"},
				GitHubLink:  "https://github.com/jordanr/weather",
				Featured:    true,
			},
			{
				ID:          "proj-2",
				Title:       "Task Tracker",
				Description: "A collaborative task tracking application.",
				TechStack:   []string{"React", "Firebase"},
			},
			{
				ID:          "proj-3",
				Title:       "Recipe Finder",
				Description: "Search engine for recipes by available ingredients.",
				TechStack:   []string{"Vue", "Express"},
			},
		},
		Education: []content.Education{
			{
				ID:          "edu-1",
				Institution: "State University",
				Degree:      "BSc Computer Science",
				Field:       "Computer Science",
				StartYear:   "2015",
				EndYear:     "2019",
				Location:    "Springfield",
			},
		},
		Certificates: []content.Certificate{
			{ID: "cert-1", Title: "Cloud Practitioner", Issuer: "AWS", IssueDate: "2023"},
		},
	}
}

func testEngine(seed int64) *Engine {
	return NewEngineWithSeed(testSnapshot(), seed, zap.NewNop())
}
