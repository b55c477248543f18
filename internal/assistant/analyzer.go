// Package assistant implements the rule-based conversational engine behind
// the portfolio chat widget: utterance analysis, record matching, response
// composition, and conversational memory.
package assistant

import (
	"regexp"
	"strings"

	"github.com/jonathan/portfolio-assistant/internal/content"
)

// Intent names a boolean classification of utterance purpose.
type Intent string

// Intents recognized by the analyzer.
const (
	IntentGreeting    Intent = "greeting"
	IntentCasualChat  Intent = "casualChat"
	IntentFarewell    Intent = "farewell"
	IntentHelp        Intent = "help"
	IntentAboutPerson Intent = "aboutPerson"
	IntentProjects    Intent = "projects"
	IntentExperience  Intent = "experience"
	IntentEducation   Intent = "education"
	IntentSkills      Intent = "skills"
	IntentContact     Intent = "contact"
	IntentLatest      Intent = "latest"
	IntentSpecific    Intent = "specific"
	IntentCount       Intent = "count"
	IntentBest        Intent = "best"
	IntentAffirmative Intent = "affirmative"
	IntentFollowUp    Intent = "followUp"
	IntentClarify     Intent = "clarify"
)

// intentPatterns is the static classification table, evaluated in order
// against the normalized utterance. Greeting is prefix-anchored and
// affirmative is fully anchored; the rest are substring searches.
var intentPatterns = []struct {
	intent  Intent
	pattern *regexp.Regexp
}{
	{IntentGreeting, regexp.MustCompile(`^(hi|hello|hey|greetings|sup|yo|howdy)`)},
	{IntentCasualChat, regexp.MustCompile(`(how are you|how're you|hows it going|wassup|what's up|how do you do)`)},
	{IntentFarewell, regexp.MustCompile(`(bye|goodbye|see you|later|thanks|thank you)`)},
	{IntentHelp, regexp.MustCompile(`(help|what can|how to|guide)`)},
	{IntentAboutPerson, regexp.MustCompile(`(who are you|tell me about|your background|yourself)`)},
	{IntentProjects, regexp.MustCompile(`(project|built|created|developed|made)`)},
	{IntentExperience, regexp.MustCompile(`(experience|work|job|role|position|career|employed)`)},
	{IntentEducation, regexp.MustCompile(`(education|degree|study|studied|school|university|college|learn)`)},
	{IntentSkills, regexp.MustCompile(`(skill|tech|technology|stack|language|framework|tool|know|proficient)`)},
	{IntentContact, regexp.MustCompile(`(contact|email|reach|hire|connect|talk|message|linkedin|github)`)},
	{IntentLatest, regexp.MustCompile(`(latest|recent|current|now|newest|last)`)},
	{IntentSpecific, regexp.MustCompile(`(about|detail|more|specific|tell me|explain)`)},
	{IntentCount, regexp.MustCompile(`(how many|number of|count)`)},
	{IntentBest, regexp.MustCompile(`(best|favorite|top|impressive|proud)`)},
	{IntentAffirmative, regexp.MustCompile(`^(yes|yeah|yep|sure|okay|ok|yup|definitely|absolutely|of course|certainly|indeed)$`)},
	{IntentFollowUp, regexp.MustCompile(`(more|else|other|another|continue)`)},
	{IntentClarify, regexp.MustCompile(`(mean|explain|elaborate|detail)`)},
}

var (
	positivePattern     = regexp.MustCompile(`(great|awesome|cool|nice|good|excellent|impressive)`)
	questionWordPattern = regexp.MustCompile(`(what|when|where|who|why|how|which)`)
)

// Sentiment is a coarse flag pair derived from the utterance.
type Sentiment struct {
	Positive bool
	Question bool
}

// Entities indexes the identifying fields of every supplied record,
// lower-cased, so matching never depends on the user's casing.
type Entities struct {
	Projects     []string
	Companies    []string
	Roles        []string
	Schools      []string
	Technologies []string
}

// Analysis is the per-utterance classification result. It is ephemeral and
// never outlives the turn that produced it.
type Analysis struct {
	Normalized string
	Tokens     []string
	Intents    map[Intent]bool
	Sentiment  Sentiment
	Entities   Entities
}

// Is reports whether the named intent was detected.
func (a *Analysis) Is(intent Intent) bool {
	return a.Intents[intent]
}

// Analyze classifies an utterance against the static pattern table and the
// supplied records. Pure: identical inputs always yield identical results,
// and unrecognized input is not an error. Many intents may be true at once;
// the composer owns priority ordering.
func Analyze(utterance string, snap *content.Snapshot) *Analysis {
	normalized := strings.ToLower(strings.TrimSpace(utterance))

	var tokens []string
	if normalized != "" {
		tokens = strings.Fields(normalized)
	}

	intents := make(map[Intent]bool, len(intentPatterns))
	for _, entry := range intentPatterns {
		intents[entry.intent] = normalized != "" && entry.pattern.MatchString(normalized)
	}

	sentiment := Sentiment{
		Positive: positivePattern.MatchString(normalized),
		Question: strings.Contains(normalized, "?") || questionWordPattern.MatchString(normalized),
	}
	if normalized == "" {
		sentiment = Sentiment{}
	}

	return &Analysis{
		Normalized: normalized,
		Tokens:     tokens,
		Intents:    intents,
		Sentiment:  sentiment,
		Entities:   indexEntities(snap),
	}
}

// indexEntities lower-cases every identifying field and tech tag across the
// snapshot. Technologies are deduplicated preserving first-seen order,
// experience before projects.
func indexEntities(snap *content.Snapshot) Entities {
	e := Entities{}
	if snap == nil {
		return e
	}

	for _, p := range snap.Projects {
		e.Projects = append(e.Projects, strings.ToLower(p.Title))
	}
	for _, x := range snap.Experience {
		e.Companies = append(e.Companies, strings.ToLower(x.Company))
		e.Roles = append(e.Roles, strings.ToLower(x.Role))
	}
	for _, ed := range snap.Education {
		e.Schools = append(e.Schools, strings.ToLower(ed.Institution))
	}

	seen := make(map[string]bool)
	addTech := func(tags []string) {
		for _, t := range tags {
			lower := strings.ToLower(t)
			if !seen[lower] {
				seen[lower] = true
				e.Technologies = append(e.Technologies, lower)
			}
		}
	}
	for _, x := range snap.Experience {
		addTech(x.TechStack)
	}
	for _, p := range snap.Projects {
		addTech(p.TechStack)
	}

	return e
}
