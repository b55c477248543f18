// Package content defines the portfolio record types served by the headless
// CMS and a client for fetching them. Records are read-only snapshots: the
// assistant never writes back to the content source.
package content

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Profile holds the portfolio owner's identity and contact channels.
type Profile struct {
	Name     string `json:"name" validate:"required"`
	Headline string `json:"headline"`
	Bio      string `json:"bio"`
	Email    string `json:"email" validate:"omitempty,email"`
	GitHub   string `json:"github" validate:"omitempty,url"`
	LinkedIn string `json:"linkedin" validate:"omitempty,url"`
}

// Experience is a single professional position.
type Experience struct {
	ID          string   `json:"_id"`
	Company     string   `json:"company" validate:"required"`
	Role        string   `json:"role" validate:"required"`
	StartDate   string   `json:"startDate" validate:"required"`
	EndDate     string   `json:"endDate"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	Order       int      `json:"order"`
}

// Project is a featured portfolio project.
type Project struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	GitHubLink  string   `json:"githubLink" validate:"omitempty,url"`
	LiveLink    string   `json:"liveLink" validate:"omitempty,url"`
	Featured    bool     `json:"featured"`
	Order       int      `json:"order"`
}

// Education is an academic credential.
type Education struct {
	ID          string `json:"_id"`
	Institution string `json:"institution" validate:"required"`
	Degree      string `json:"degree" validate:"required"`
	Field       string `json:"field"`
	StartYear   string `json:"startYear"`
	EndYear     string `json:"endYear"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Order       int    `json:"order"`
}

// Certificate is a professional certification.
type Certificate struct {
	ID            string   `json:"_id"`
	Title         string   `json:"title" validate:"required"`
	Issuer        string   `json:"issuer" validate:"required"`
	IssueDate     string   `json:"issueDate"`
	ExpiryDate    string   `json:"expiryDate"`
	CredentialURL string   `json:"credentialUrl" validate:"omitempty,url"`
	Skills        []string `json:"skills"`
	Order         int      `json:"order"`
}

// Snapshot bundles every record collection fetched at session start.
// It is immutable once handed to the assistant.
type Snapshot struct {
	Profile      *Profile      `json:"profile"`
	Experience   []Experience  `json:"experience"`
	Projects     []Project     `json:"projects"`
	Education    []Education   `json:"education"`
	Certificates []Certificate `json:"certificates"`
}

// Issue describes a single malformed-record finding. Malformed records are
// reported and normalized, never rejected.
type Issue struct {
	Collection string
	Index      int
	Message    string
}

var validate = validator.New()

// Normalize trims whitespace and replaces nil tag lists with empty slices so
// downstream code never has to nil-check optional fields.
func (s *Snapshot) Normalize() {
	if s.Profile != nil {
		s.Profile.Name = strings.TrimSpace(s.Profile.Name)
		s.Profile.Headline = strings.TrimSpace(s.Profile.Headline)
		s.Profile.Email = strings.TrimSpace(s.Profile.Email)
	}
	for i := range s.Experience {
		if s.Experience[i].TechStack == nil {
			s.Experience[i].TechStack = []string{}
		}
	}
	for i := range s.Projects {
		if s.Projects[i].TechStack == nil {
			s.Projects[i].TechStack = []string{}
		}
	}
	for i := range s.Certificates {
		if s.Certificates[i].Skills == nil {
			s.Certificates[i].Skills = []string{}
		}
	}
}

// Validate checks every record against its struct tags and returns the list
// of findings. An empty result means the snapshot is fully well-formed.
func (s *Snapshot) Validate() []Issue {
	var issues []Issue

	if s.Profile != nil {
		if err := validate.Struct(s.Profile); err != nil {
			issues = append(issues, Issue{Collection: "profile", Message: err.Error()})
		}
	}
	for i := range s.Experience {
		if err := validate.Struct(&s.Experience[i]); err != nil {
			issues = append(issues, Issue{Collection: "experience", Index: i, Message: err.Error()})
		}
	}
	for i := range s.Projects {
		if err := validate.Struct(&s.Projects[i]); err != nil {
			issues = append(issues, Issue{Collection: "projects", Index: i, Message: err.Error()})
		}
	}
	for i := range s.Education {
		if err := validate.Struct(&s.Education[i]); err != nil {
			issues = append(issues, Issue{Collection: "education", Index: i, Message: err.Error()})
		}
	}
	for i := range s.Certificates {
		if err := validate.Struct(&s.Certificates[i]); err != nil {
			issues = append(issues, Issue{Collection: "certificates", Index: i, Message: err.Error()})
		}
	}

	return issues
}

// Counts returns the collection sizes, used by the health and content
// endpoints.
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		"experience":   len(s.Experience),
		"projects":     len(s.Projects),
		"education":    len(s.Education),
		"certificates": len(s.Certificates),
	}
}
