package assistant

import (
	"time"

	"github.com/jonathan/portfolio-assistant/internal/content"
)

// TopicKind discriminates the Topic tagged union.
type TopicKind int

// Topic kinds.
const (
	TopicNone TopicKind = iota
	TopicNamed
	TopicProject
	TopicExperience
	TopicEducation
)

// Named topic values.
const (
	TopicAbout          = "about"
	TopicProjects       = "projects"
	TopicExperiences    = "experiences"
	TopicEducationList  = "education"
	TopicSkills         = "skills"
	TopicContact        = "contact"
	TopicProjectsLatest = "projects-latest"
)

// Topic is the subject of the most recently resolved bot reply: nothing, a
// named area of the portfolio, or one specific record. It is read when
// interpreting ambiguous follow-ups.
type Topic struct {
	Kind       TopicKind
	Name       string
	Project    *content.Project
	Experience *content.Experience
	Education  *content.Education
}

// NamedTopic builds a string-tagged topic.
func NamedTopic(name string) Topic { return Topic{Kind: TopicNamed, Name: name} }

// ProjectTopic builds a topic bound to one project record.
func ProjectTopic(p *content.Project) Topic { return Topic{Kind: TopicProject, Project: p} }

// ExperienceTopic builds a topic bound to one experience record.
func ExperienceTopic(x *content.Experience) Topic {
	return Topic{Kind: TopicExperience, Experience: x}
}

// EducationTopic builds a topic bound to one education record.
func EducationTopic(e *content.Education) Topic { return Topic{Kind: TopicEducation, Education: e} }

// IsNamed reports whether the topic is the given named tag.
func (t Topic) IsNamed(name string) bool { return t.Kind == TopicNamed && t.Name == name }

// Tag returns a short label for the topic, used in the grounding context.
func (t Topic) Tag() string {
	switch t.Kind {
	case TopicNamed:
		return t.Name
	case TopicProject:
		return "project"
	case TopicExperience:
		return "experience"
	case TopicEducation:
		return "education"
	}
	return ""
}

// Speaker identifies who produced a turn.
type Speaker string

// Speakers.
const (
	SpeakerUser Speaker = "user"
	SpeakerBot  Speaker = "bot"
)

// Turn is one utterance in the conversation, either side.
type Turn struct {
	Speaker   Speaker
	Text      string
	Timestamp time.Time
}

// Memory holds the rolling conversation history and last discussed topic for
// one session. It is not safe for concurrent use; sessions serialize message
// handling, so no locking is needed here.
type Memory struct {
	turns []Turn
	topic Topic
	now   func() time.Time
}

// NewMemory creates an empty conversation memory.
func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// Topic returns the last discussed topic.
func (m *Memory) Topic() Topic { return m.topic }

// Turns returns the full turn history, oldest first.
func (m *Memory) Turns() []Turn { return m.turns }

// Recent returns the last n turns, oldest first.
func (m *Memory) Recent(n int) []Turn {
	if n <= 0 || len(m.turns) == 0 {
		return nil
	}
	if len(m.turns) <= n {
		return m.turns
	}
	return m.turns[len(m.turns)-n:]
}

// RecentUserTexts returns the text of the last n user turns, oldest first.
// The fallback composer uses these to avoid re-suggesting covered topics.
func (m *Memory) RecentUserTexts(n int) []string {
	var texts []string
	for i := len(m.turns) - 1; i >= 0 && len(texts) < n; i-- {
		if m.turns[i].Speaker == SpeakerUser {
			texts = append(texts, m.turns[i].Text)
		}
	}
	for i, j := 0, len(texts)-1; i < j; i, j = i+1, j-1 {
		texts[i], texts[j] = texts[j], texts[i]
	}
	return texts
}

// Observe records a completed exchange and the topic it resolved to. It is
// called only after the reply is finalized, so reads during composition
// always see the prior state.
func (m *Memory) Observe(userText, botText string, topic Topic) {
	now := m.now()
	m.turns = append(m.turns,
		Turn{Speaker: SpeakerUser, Text: userText, Timestamp: now},
		Turn{Speaker: SpeakerBot, Text: botText, Timestamp: now},
	)
	m.topic = topic
}

// ObserveExchange records a completed exchange without changing the topic.
// Used for generative replies, which do not resolve to a rule topic.
func (m *Memory) ObserveExchange(userText, botText string) {
	m.Observe(userText, botText, m.topic)
}
