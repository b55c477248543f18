package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML flattens rich-text markup to plain text. Bios and descriptions
// authored in the CMS rich-text editor can arrive rendered as HTML; the
// composer and grounding context both want plain text.
//
// Input without any markup is returned unchanged (modulo whitespace
// collapsing), so it is safe to run on every description.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}

	// Block elements become line breaks so paragraphs stay readable.
	doc.Find("p, br, li, div, h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	text := doc.Text()
	lines := strings.Split(text, "\n")
	var out []string
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n")
}

// sanitizeSnapshot strips markup from every free-text field in place.
func sanitizeSnapshot(s *Snapshot) {
	if s.Profile != nil {
		s.Profile.Bio = StripHTML(s.Profile.Bio)
	}
	for i := range s.Experience {
		s.Experience[i].Description = StripHTML(s.Experience[i].Description)
	}
	for i := range s.Projects {
		s.Projects[i].Description = StripHTML(s.Projects[i].Description)
	}
	for i := range s.Education {
		s.Education[i].Description = StripHTML(s.Education[i].Description)
	}
}
