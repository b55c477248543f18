package generation

import (
	"fmt"
	"strings"

	"github.com/jonathan/portfolio-assistant/internal/assistant"
	"github.com/jonathan/portfolio-assistant/internal/content"
	"github.com/jonathan/portfolio-assistant/internal/prompts"
)

// BuildGroundingContext serializes the full snapshot plus recent
// conversation state into the context block sent with every generative
// request, keeping replies factually anchored to the portfolio.
func BuildGroundingContext(snap *content.Snapshot, recent []assistant.Turn, topic assistant.Topic) string {
	var sb strings.Builder

	name := "a professional developer"
	if snap.Profile != nil && snap.Profile.Name != "" {
		name = snap.Profile.Name
	}
	sb.WriteString(prompts.Format(prompts.MustGet("context_header"), map[string]string{"Name": name}))
	sb.WriteString("\n\nABOUT THE PROFESSIONAL:\n\n")

	writeProfile(&sb, snap.Profile)
	writeExperience(&sb, snap.Experience)
	writeProjects(&sb, snap.Projects)
	writeEducation(&sb, snap.Education)
	writeCertificates(&sb, snap.Certificates)

	sb.WriteString("\n")
	sb.WriteString(prompts.MustGet("guidelines"))
	sb.WriteString("\n\nCurrent conversation:\n")
	for _, turn := range recent {
		label := "User"
		if turn.Speaker == assistant.SpeakerBot {
			label = "Assistant"
		}
		fmt.Fprintf(&sb, "%s: %s\n", label, turn.Text)
	}
	if tag := topic.Tag(); tag != "" {
		fmt.Fprintf(&sb, "Last discussed topic: %s\n", tag)
	}

	return sb.String()
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

func orNA(tags []string) string {
	if len(tags) == 0 {
		return "N/A"
	}
	return strings.Join(tags, ", ")
}

func writeProfile(sb *strings.Builder, p *content.Profile) {
	sb.WriteString("Profile:\n")
	if p == nil {
		p = &content.Profile{}
	}
	fmt.Fprintf(sb, "- Name: %s\n", orNotSpecified(p.Name))
	fmt.Fprintf(sb, "- Headline: %s\n", orNotSpecified(p.Headline))
	fmt.Fprintf(sb, "- Bio: %s\n", orNotSpecified(p.Bio))
	fmt.Fprintf(sb, "- Email: %s\n", orNotSpecified(p.Email))
	fmt.Fprintf(sb, "- GitHub: %s\n", orNotSpecified(p.GitHub))
	fmt.Fprintf(sb, "- LinkedIn: %s\n", orNotSpecified(p.LinkedIn))
}

func writeExperience(sb *strings.Builder, experiences []content.Experience) {
	fmt.Fprintf(sb, "\nWork Experience (%d positions):\n", len(experiences))
	for _, e := range experiences {
		end := e.EndDate
		if end == "" {
			end = "Present"
		}
		fmt.Fprintf(sb, "- %s at %s (%s - %s)\n", e.Role, e.Company, e.StartDate, end)
		fmt.Fprintf(sb, "  Description: %s\n", e.Description)
		fmt.Fprintf(sb, "  Tech Stack: %s\n", orNA(e.TechStack))
	}
}

func writeProjects(sb *strings.Builder, projects []content.Project) {
	fmt.Fprintf(sb, "\nProjects (%d projects):\n", len(projects))
	for _, p := range projects {
		fmt.Fprintf(sb, "- %s\n", p.Title)
		fmt.Fprintf(sb, "  Description: %s\n", p.Description)
		fmt.Fprintf(sb, "  Tech Stack: %s\n", orNA(p.TechStack))
		if p.GitHubLink != "" {
			fmt.Fprintf(sb, "  GitHub: %s\n", p.GitHubLink)
		}
		if p.LiveLink != "" {
			fmt.Fprintf(sb, "  Live: %s\n", p.LiveLink)
		}
	}
}

func writeEducation(sb *strings.Builder, education []content.Education) {
	fmt.Fprintf(sb, "\nEducation (%d credentials):\n", len(education))
	for _, e := range education {
		end := e.EndYear
		if end == "" {
			end = "Present"
		}
		fmt.Fprintf(sb, "- %s from %s (%s - %s)\n", e.Degree, e.Institution, e.StartYear, end)
		if e.Field != "" {
			fmt.Fprintf(sb, "  Field: %s\n", e.Field)
		}
		if e.Location != "" {
			fmt.Fprintf(sb, "  Location: %s\n", e.Location)
		}
		if e.Description != "" {
			fmt.Fprintf(sb, "  Description: %s\n", e.Description)
		}
	}
}

func writeCertificates(sb *strings.Builder, certificates []content.Certificate) {
	fmt.Fprintf(sb, "\nCertifications (%d certificates):\n", len(certificates))
	if len(certificates) == 0 {
		sb.WriteString("- No certifications listed yet\n")
		return
	}
	for _, c := range certificates {
		fmt.Fprintf(sb, "- %s from %s\n", c.Title, c.Issuer)
		fmt.Fprintf(sb, "  Issued: %s\n", orNotSpecified(c.IssueDate))
		if c.ExpiryDate != "" {
			fmt.Fprintf(sb, "  Expires: %s\n", c.ExpiryDate)
		} else {
			sb.WriteString("  No expiration\n")
		}
		if c.CredentialURL != "" {
			fmt.Fprintf(sb, "  Verify at: %s\n", c.CredentialURL)
		}
		if len(c.Skills) > 0 {
			fmt.Fprintf(sb, "  Skills: %s\n", strings.Join(c.Skills, ", "))
		}
	}
}
