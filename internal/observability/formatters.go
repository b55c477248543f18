// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/portfolio-assistant/internal/content"
	"github.com/jonathan/portfolio-assistant/internal/generation"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSnapshot outputs a human-readable summary of a content snapshot.
func (p *Printer) PrintSnapshot(snap *content.Snapshot) {
	if snap == nil {
		return
	}

	var sb strings.Builder

	name := "(no profile)"
	headline := ""
	if snap.Profile != nil {
		name = snap.Profile.Name
		headline = snap.Profile.Headline
	}
	sb.WriteString(fmt.Sprintf("Name:     %s\n", name))
	if headline != "" {
		sb.WriteString(fmt.Sprintf("Headline: %s\n", headline))
	}
	sb.WriteString("\n")

	if len(snap.Experience) > 0 {
		sb.WriteString(fmt.Sprintf("Experience (%d):\n", len(snap.Experience)))
		count := min(len(snap.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := snap.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s at %s\n", exp.Role, exp.Company))
		}
		if len(snap.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(snap.Experience)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(snap.Projects) > 0 {
		sb.WriteString(fmt.Sprintf("Projects (%d):\n", len(snap.Projects)))
		count := min(len(snap.Projects), maxItemsToShow)
		for i := 0; i < count; i++ {
			proj := snap.Projects[i]
			sb.WriteString(fmt.Sprintf("  • %s", proj.Title))
			if len(proj.TechStack) > 0 {
				sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(proj.TechStack, ", ")))
			}
			sb.WriteString("\n")
		}
		if len(snap.Projects) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(snap.Projects)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(snap.Education) > 0 {
		sb.WriteString(fmt.Sprintf("Education (%d):\n", len(snap.Education)))
		for _, edu := range snap.Education {
			sb.WriteString(fmt.Sprintf("  • %s, %s\n", edu.Degree, edu.Institution))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Certificates: %d\n", len(snap.Certificates)))

	p.printBox("CONTENT SNAPSHOT", strings.TrimRight(sb.String(), "\n"))
}

// PrintIssues outputs validation findings for a snapshot. Nothing is
// printed when the snapshot is clean.
func (p *Printer) PrintIssues(issues []content.Issue) {
	if len(issues) == 0 {
		return
	}

	var sb strings.Builder
	for _, issue := range issues {
		sb.WriteString(fmt.Sprintf("%s[%d]: %s\n", issue.Collection, issue.Index, issue.Message))
	}

	p.printBox(fmt.Sprintf("VALIDATION ISSUES (%d)", len(issues)), strings.TrimRight(sb.String(), "\n"))
}

// PrintBinding outputs the generation attempt state after discovery.
func (p *Printer) PrintBinding(state generation.State) {
	var sb strings.Builder

	if state.Available() {
		sb.WriteString(fmt.Sprintf("Model:    %s\n", state.Model))
	} else {
		sb.WriteString("Model:    (none, rule-based replies only)\n")
		if state.Reason != "" {
			sb.WriteString(fmt.Sprintf("Reason:   %s\n", state.Reason))
		}
	}

	if len(state.Candidates) > 0 {
		sb.WriteString(fmt.Sprintf("Candidates (%d):\n", len(state.Candidates)))
		count := min(len(state.Candidates), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", state.Candidates[i]))
		}
		if len(state.Candidates) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(state.Candidates)-maxItemsToShow))
		}
	}

	p.printBox("GENERATIVE BACKEND", strings.TrimRight(sb.String(), "\n"))
}
