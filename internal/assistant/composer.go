package assistant

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/portfolio-assistant/internal/content"
)

// Matches holds the ranked candidate lists for one turn, one per record
// collection the composer dispatches over.
type Matches struct {
	Projects   []MatchResult
	Experience []MatchResult
	Education  []MatchResult
}

// BuildMatches runs the entity matcher over every collection with the fields
// each sub-dispatch queries.
func BuildMatches(a *Analysis, snap *content.Snapshot) Matches {
	return Matches{
		Projects:   Match(a, ProjectRecords(snap.Projects), []string{"title", "description"}),
		Experience: Match(a, ExperienceRecords(snap.Experience), []string{"company", "role", "description"}),
		Education:  Match(a, EducationRecords(snap.Education), []string{"institution", "degree", "field", "description"}),
	}
}

// Composer selects or synthesizes a reply from an analysis, ranked matches,
// and the prior topic. It is deterministic given its random source and never
// fails: every branch ends in a terminal string.
type Composer struct {
	rng *rand.Rand
}

// NewComposer creates a composer with a time-seeded random source.
func NewComposer() *Composer {
	return NewComposerWithSeed(time.Now().UnixNano())
}

// NewComposerWithSeed creates a composer with a fixed seed, for tests.
func NewComposerWithSeed(seed int64) *Composer {
	return &Composer{rng: rand.New(rand.NewSource(seed))}
}

// pick chooses one template, interpolating the owner's name where the
// template carries a placeholder.
func (c *Composer) pick(templates []string, name string) string {
	t := templates[c.rng.Intn(len(templates))]
	if strings.Contains(t, "%s") {
		return fmt.Sprintf(t, name)
	}
	return t
}

// ownerName returns the profile name or a generic stand-in.
func ownerName(snap *content.Snapshot) string {
	if snap != nil && snap.Profile != nil && snap.Profile.Name != "" {
		return snap.Profile.Name
	}
	return fallbackName
}

// Compose walks the priority ladder and returns the reply plus the topic the
// turn resolved to. Branch order is deliberate: state-dependent branches
// (affirmative-after-education, follow-up) are checked before generic
// keyword branches so contextual replies are not misread as fresh topic
// requests. The incoming topic is returned unchanged by branches that do not
// resolve to a new subject.
func (c *Composer) Compose(a *Analysis, m Matches, topic Topic, recentUser []string, snap *content.Snapshot) (string, Topic) {
	name := ownerName(snap)

	switch {
	case a.Is(IntentCasualChat):
		return c.pick(casualChatTemplates, name), topic

	case a.Is(IntentGreeting):
		return c.pick(greetingTemplates, name), topic

	case a.Is(IntentFarewell):
		return c.pick(farewellTemplates, name), topic

	case a.Is(IntentHelp):
		return fmt.Sprintf(helpTemplate, name), topic

	case a.Is(IntentAboutPerson) && !a.Is(IntentExperience) && !a.Is(IntentProjects):
		return c.composeAbout(snap), NamedTopic(TopicAbout)

	case a.Is(IntentProjects):
		return c.composeProjects(a, m.Projects, topic, snap)

	case a.Is(IntentExperience):
		return c.composeExperience(a, m.Experience, topic, snap)

	case a.Is(IntentEducation) ||
		(topic.IsNamed(TopicEducationList) && (a.Is(IntentAffirmative) || a.Is(IntentSpecific))):
		return c.composeEducation(a, m.Education, topic, snap)

	case a.Is(IntentSkills):
		return c.composeSkills(snap)

	case a.Is(IntentContact):
		return composeContact(snap), NamedTopic(TopicContact)

	case a.Is(IntentFollowUp) && topic.Kind != TopicNone:
		if reply, ok := composeFollowUp(topic); ok {
			return reply, topic
		}
		// Topics without a follow-up rendering still get the sentiment
		// check below before the fallback.
	}

	if a.Sentiment.Positive {
		return c.pick(positiveTemplates, name), topic
	}

	return c.composeFallback(recentUser, snap), topic
}

// composeAbout renders the profile summary card.
func (c *Composer) composeAbout(snap *content.Snapshot) string {
	name := ownerName(snap)
	headline := "Professional Developer"
	bio := "A passionate developer focused on creating exceptional digital experiences."
	email := ""
	if snap.Profile != nil {
		if snap.Profile.Headline != "" {
			headline = snap.Profile.Headline
		}
		if snap.Profile.Bio != "" {
			bio = snap.Profile.Bio
		}
		email = snap.Profile.Email
	}

	topSkills := distinctTech(snap.Experience, snap.Projects)
	if len(topSkills) > 5 {
		topSkills = topSkills[:5]
	}
	expertise := strings.Join(firstN(topSkills, 3), ", ")
	if len(topSkills) > 3 {
		expertise += "..."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Let me tell you about %s! 😊\n\n**%s**\n\n%s\n\n", name, headline, bio)
	sb.WriteString("📊 **Quick Facts:**\n")
	fmt.Fprintf(&sb, "• %d professional position%s\n", len(snap.Experience), plural(len(snap.Experience)))
	fmt.Fprintf(&sb, "• %d featured project%s\n", len(snap.Projects), plural(len(snap.Projects)))
	fmt.Fprintf(&sb, "• %d academic credential%s\n", len(snap.Education), plural(len(snap.Education)))
	if expertise != "" {
		fmt.Fprintf(&sb, "• Expertise in: %s\n", expertise)
	}
	if email != "" {
		fmt.Fprintf(&sb, "\n📧 Reachable at: %s\n", email)
	}
	sb.WriteString("\nWhat specific aspect interests you most?")
	return sb.String()
}

// composeProjects handles the project sub-dispatch.
func (c *Composer) composeProjects(a *Analysis, matches []MatchResult, topic Topic, snap *content.Snapshot) (string, Topic) {
	projects := snap.Projects

	if len(projects) == 0 {
		return "It seems no projects have been added yet. Check back soon for exciting updates! 🚀", topic
	}

	if a.Is(IntentSpecific) && len(matches) > 0 {
		project := matches[0].Record.(ProjectRecord).Project
		return composeProjectDetail(project, projects), ProjectTopic(project)
	}

	if a.Is(IntentBest) {
		featured := &projects[0] // supplied order puts the featured project first
		techPreview := strings.Join(firstN(featured.TechStack, 5), ", ")
		if len(featured.TechStack) > 5 {
			techPreview += "..."
		}
		showcase := "modern development"
		if len(featured.TechStack) > 0 {
			showcase = featured.TechStack[0]
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "Excellent question! The most impressive project would be **%s** ⭐\n\n%s\n\n", featured.Title, featured.Description)
		if techPreview != "" {
			fmt.Fprintf(&sb, "Built with: %s\n\n", techPreview)
		}
		if featured.GitHubLink != "" {
			fmt.Fprintf(&sb, "Check it out: %s\n\n", featured.GitHubLink)
		}
		fmt.Fprintf(&sb, "This project really showcases expertise in %s. Want to hear about other projects too?", showcase)
		return sb.String(), ProjectTopic(featured)
	}

	if a.Is(IntentCount) {
		tags := distinctTechFromProjects(projects)
		return fmt.Sprintf("There are **%d featured project%s** in the portfolio! 📊\n\nThey cover a range of technologies including %s.\n\nWould you like to explore any specific one?",
			len(projects), plural(len(projects)), strings.Join(firstN(tags, 6), ", ")), topic
	}

	if a.Is(IntentLatest) {
		latest := projects
		if len(latest) > 2 {
			latest = latest[:2]
		}
		var parts []string
		for i, p := range latest {
			parts = append(parts, fmt.Sprintf("**%d. %s**\n%s\nTech: %s",
				i+1, p.Title, truncate(p.Description, 120), strings.Join(firstN(p.TechStack, 4), ", ")))
		}
		return fmt.Sprintf("Here are the most recent projects! 🎯\n\n%s\n\nWhich one catches your eye?",
			strings.Join(parts, "\n\n")), NamedTopic(TopicProjectsLatest)
	}

	var parts []string
	for i, p := range projects {
		tech := strings.Join(firstN(p.TechStack, 3), " • ")
		if tech == "" {
			tech = "Various tech"
		}
		parts = append(parts, fmt.Sprintf("**%d. %s**\n   %s\n   %s",
			i+1, p.Title, truncate(p.Description, 90), tech))
	}
	return fmt.Sprintf("Absolutely! Here's the full portfolio of **%d impressive project%s**: 🎨\n\n%s\n\nAsk me about any project by name, or try: \"What's your best project?\" or \"Show me React projects\"",
		len(projects), plural(len(projects)), strings.Join(parts, "\n\n")), NamedTopic(TopicProjects)
}

// composeProjectDetail renders the detail view of one project, including up
// to two related projects sharing at least one tag.
func composeProjectDetail(project *content.Project, all []content.Project) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Great choice! Let me tell you about **%s** 🚀\n\n%s\n\n", project.Title, project.Description)

	if len(project.TechStack) > 0 {
		sb.WriteString("**🛠️ Technologies used:**\n")
		for _, t := range project.TechStack {
			fmt.Fprintf(&sb, "• %s\n", t)
		}
		sb.WriteString("\n")
	}

	if project.GitHubLink != "" || project.LiveLink != "" {
		sb.WriteString("**🔗 Links:**\n")
		if project.GitHubLink != "" {
			fmt.Fprintf(&sb, "• Code: %s\n", project.GitHubLink)
		}
		if project.LiveLink != "" {
			fmt.Fprintf(&sb, "• Live Demo: %s\n", project.LiveLink)
		}
		sb.WriteString("\n")
	}

	related := relatedProjects(project, all, 2)
	if len(related) > 0 {
		sb.WriteString("**💡 You might also like:**\n")
		for _, r := range related {
			fmt.Fprintf(&sb, "• %s\n", r.Title)
		}
	}

	sb.WriteString("\nWhat else would you like to know?")
	return sb.String()
}

// relatedProjects returns up to max other projects sharing at least one tag.
func relatedProjects(project *content.Project, all []content.Project, max int) []content.Project {
	tags := make(map[string]bool, len(project.TechStack))
	for _, t := range project.TechStack {
		tags[strings.ToLower(t)] = true
	}

	var related []content.Project
	for i := range all {
		if len(related) >= max {
			break
		}
		other := &all[i]
		if other == project || (other.ID != "" && other.ID == project.ID) {
			continue
		}
		for _, t := range other.TechStack {
			if tags[strings.ToLower(t)] {
				related = append(related, *other)
				break
			}
		}
	}
	return related
}

// composeExperience handles the experience sub-dispatch.
func (c *Composer) composeExperience(a *Analysis, matches []MatchResult, topic Topic, snap *content.Snapshot) (string, Topic) {
	experiences := snap.Experience

	if len(experiences) == 0 {
		return "No professional experience has been added yet. Stay tuned! 🚀", topic
	}

	if a.Is(IntentSpecific) && len(matches) > 0 {
		exp := matches[0].Record.(ExperienceRecord).Experience
		return composeExperienceDetail(exp), ExperienceTopic(exp)
	}

	if a.Is(IntentLatest) {
		current := currentExperience(experiences)
		lead := "working as"
		if current.EndDate != "" && !strings.EqualFold(current.EndDate, "present") {
			lead = "the most recent role was"
		}
		tech := strings.Join(firstN(current.TechStack, 4), ", ")
		if tech == "" {
			tech = "various technologies"
		}
		return fmt.Sprintf("Currently %s **%s** at **%s**! 🎯\n\n%s\n\nUsing: %s\n\nWant to know more about this role or other experience?",
			lead, current.Role, current.Company, truncate(current.Description, 200), tech), ExperienceTopic(current)
	}

	if a.Is(IntentCount) {
		companies := make([]string, len(experiences))
		for i, e := range experiences {
			companies[i] = e.Company
		}
		return fmt.Sprintf("There are **%d professional position%s** listed, representing %d+ years of experience! 📈\n\nCompanies include: %s\n\nWhich role interests you?",
			len(experiences), plural(len(experiences)), totalYears(experiences), strings.Join(companies, ", ")), topic
	}

	var parts []string
	for i, e := range experiences {
		end := e.EndDate
		if end == "" {
			end = "Present"
		}
		skills := strings.Join(firstN(e.TechStack, 3), ", ")
		if skills == "" {
			skills = "Multiple"
		}
		parts = append(parts, fmt.Sprintf("**%d. %s** @ %s\n   📅 %s - %s\n   %s\n   Skills: %s",
			i+1, e.Role, e.Company, e.StartDate, end, truncate(e.Description, 100), skills))
	}
	return fmt.Sprintf("Great question! Here's the professional journey: 🌟\n\n%s\n\nWant details about working at any of these companies? Just ask!",
		strings.Join(parts, "\n\n")), NamedTopic(TopicExperiences)
}

// composeExperienceDetail renders the detail view of one position.
func composeExperienceDetail(exp *content.Experience) string {
	end := exp.EndDate
	if end == "" {
		end = "Present"
	}
	duration := CalculateDuration(exp.StartDate, exp.EndDate)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Let me tell you about working at **%s**! 💼\n\n**%s**\n📅 %s → %s", exp.Company, exp.Role, exp.StartDate, end)
	if duration != "" {
		fmt.Fprintf(&sb, " (%s)", duration)
	}
	fmt.Fprintf(&sb, "\n\n**What I did:**\n%s\n\n", exp.Description)

	if len(exp.TechStack) > 0 {
		sb.WriteString("**🛠️ Technologies & Tools:**\n")
		for _, s := range exp.TechStack {
			fmt.Fprintf(&sb, "• %s\n", s)
		}
		sb.WriteString("\n")
	}

	focus := strings.Join(firstN(exp.TechStack, 2), " and ")
	if focus == "" {
		focus = "key areas"
	}
	closer := "Currently making an impact here!"
	if exp.EndDate != "" && !strings.EqualFold(exp.EndDate, "present") {
		closer = "Valuable experience that contributed to career growth!"
	}
	fmt.Fprintf(&sb, "This role really developed expertise in %s. %s\n\nAnything specific you'd like to know?", focus, closer)
	return sb.String()
}

// currentExperience finds the first entry whose end date is absent or
// "present", falling back to the first entry in supplied order.
func currentExperience(experiences []content.Experience) *content.Experience {
	for i := range experiences {
		if experiences[i].EndDate == "" || strings.EqualFold(experiences[i].EndDate, "present") {
			return &experiences[i]
		}
	}
	return &experiences[0]
}

// composeEducation handles education queries, including the affirmative
// follow-up after an education listing ("yes, the computer science degree").
func (c *Composer) composeEducation(a *Analysis, matches []MatchResult, topic Topic, snap *content.Snapshot) (string, Topic) {
	education := snap.Education

	if a.Is(IntentAffirmative) && topic.IsNamed(TopicEducationList) && len(a.Tokens) > 1 {
		// Tokens beyond the bare "yes" disambiguate which credential.
		degreeMatches := Match(a, EducationRecords(education), []string{"degree", "institution", "field"})
		if len(degreeMatches) > 0 {
			edu := degreeMatches[0].Record.(EducationRecord).Education
			return composeEducationChoice(edu), EducationTopic(edu)
		}
	}

	if (a.Is(IntentSpecific) || a.Is(IntentAffirmative)) && len(matches) > 0 {
		edu := matches[0].Record.(EducationRecord).Education
		return composeEducationDetail(edu), EducationTopic(edu)
	}

	if len(education) == 0 {
		return "No education information has been added yet. Check back later! 📚", topic
	}

	var parts []string
	for i, e := range education {
		end := e.EndYear
		if end == "" {
			end = "Present"
		}
		entry := fmt.Sprintf("**%d. %s**\n   🏫 %s", i+1, e.Degree, e.Institution)
		if e.Location != "" {
			entry += fmt.Sprintf(" (%s)", e.Location)
		}
		entry += fmt.Sprintf("\n   📅 %s - %s", e.StartYear, end)
		if e.Field != "" {
			entry += fmt.Sprintf("\n   Field: %s", e.Field)
		}
		parts = append(parts, entry)
	}
	return fmt.Sprintf("Here's the educational foundation: 📚\n\n%s\n\nWant to know more about any specific degree?",
		strings.Join(parts, "\n\n")), NamedTopic(TopicEducationList)
}

// composeEducationChoice renders the reply when the user picked a credential
// by answering "yes" plus a qualifier.
func composeEducationChoice(edu *content.Education) string {
	end := edu.EndYear
	if end == "" {
		end = "Present"
	}
	desc := edu.Description
	if desc == "" {
		desc = "This degree program provided comprehensive knowledge and skills in the field, building a strong foundation for a successful career in technology."
	}
	closer := "Currently making the most of this learning opportunity!"
	if edu.EndYear != "" {
		closer = "This academic experience was instrumental in shaping professional expertise!"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Excellent choice! Let me tell you about the **%s** from **%s**! 🎓\n\n", edu.Degree, edu.Institution)
	if edu.Field != "" {
		fmt.Fprintf(&sb, "**Field of Study:** %s\n", edu.Field)
	}
	if edu.Location != "" {
		fmt.Fprintf(&sb, "**Location:** %s\n", edu.Location)
	}
	fmt.Fprintf(&sb, "**Duration:** %s - %s\n\n%s\n\n%s\n\nWhat else would you like to know?", edu.StartYear, end, desc, closer)
	return sb.String()
}

// composeEducationDetail renders the detail view of one credential.
func composeEducationDetail(edu *content.Education) string {
	end := edu.EndYear
	if end == "" {
		end = "Present"
	}
	desc := edu.Description
	if desc == "" {
		desc = "A foundational period of learning and growth that prepared for a successful career in tech."
	}
	field := edu.Field
	if field == "" {
		field = "the field"
	}
	closer := "Currently pursuing this degree!"
	if edu.EndYear != "" {
		closer = "Great memories and valuable lessons!"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here's the academic background from **%s**! 🎓\n\n**%s**\n", edu.Institution, edu.Degree)
	if edu.Field != "" {
		fmt.Fprintf(&sb, "Field: %s\n", edu.Field)
	}
	if edu.Location != "" {
		fmt.Fprintf(&sb, "📍 %s\n", edu.Location)
	}
	fmt.Fprintf(&sb, "📅 %s - %s\n\n%s\n\nThis education provided essential knowledge in %s. %s\n\nAnything else about education?",
		edu.StartYear, end, desc, field, closer)
	return sb.String()
}

// skillCategories is the fixed classification table, checked in order; the
// first matching category wins and tools is the catch-all.
var skillCategories = []struct {
	key     string
	icon    string
	display string
	pattern *regexp.Regexp
}{
	{"frontend", "🎨", "Frontend", regexp.MustCompile(`react|vue|angular|svelte|html|css|tailwind|sass|scss|bootstrap`)},
	{"backend", "⚙️", "Backend", regexp.MustCompile(`node|express|django|flask|spring|rails|php|laravel`)},
	{"database", "🗄️", "Database", regexp.MustCompile(`mongo|sql|postgres|mysql|firebase|redis|dynamo`)},
	{"mobile", "📱", "Mobile", regexp.MustCompile(`react native|flutter|swift|kotlin|ionic`)},
	{"devops", "🚀", "DevOps", regexp.MustCompile(`docker|kubernetes|aws|azure|gcp|jenkins|ci/cd|git`)},
}

// composeSkills renders the grouped skill inventory with usage counts.
func (c *Composer) composeSkills(snap *content.Snapshot) (string, Topic) {
	allTech := distinctTech(snap.Experience, snap.Projects)
	if len(allTech) == 0 {
		return "No technical skills have been listed yet. Check back soon! ⚡", NamedTopic(TopicSkills)
	}

	grouped := make(map[string][]string)
	for _, tech := range allTech {
		lower := strings.ToLower(tech)
		category := "tools"
		for _, cat := range skillCategories {
			if cat.pattern.MatchString(lower) {
				category = cat.key
				break
			}
		}
		grouped[category] = append(grouped[category], tech)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Here's the complete technical arsenal! ⚡ **(%d technologies)**\n\n", len(allTech))
	for _, cat := range skillCategories {
		if skills := grouped[cat.key]; len(skills) > 0 {
			fmt.Fprintf(&sb, "%s **%s** (%d)\n%s\n\n", cat.icon, cat.display, len(skills), strings.Join(skills, " • "))
		}
	}
	if tools := grouped["tools"]; len(tools) > 0 {
		fmt.Fprintf(&sb, "🛠️ **Tools & Other** (%d)\n%s\n\n", len(tools), strings.Join(tools, " • "))
	}

	mostUsed := mostExperienced(allTech, snap.Experience, snap.Projects, 3)
	var usage []string
	for _, mu := range mostUsed {
		usage = append(usage, fmt.Sprintf("%s (used in %d project%s)", mu.tech, mu.count, plural(mu.count)))
	}
	fmt.Fprintf(&sb, "**💪 Most Experienced:**\n%s\n\n", strings.Join(usage, " • "))
	sb.WriteString("Want to see projects using any specific technology?")

	return sb.String(), NamedTopic(TopicSkills)
}

type techUsage struct {
	tech  string
	count int
}

// mostExperienced ranks tags by how many records carry them, ties broken by
// the ordered union (experience first, then projects).
func mostExperienced(allTech []string, experiences []content.Experience, projects []content.Project, n int) []techUsage {
	usages := make([]techUsage, 0, len(allTech))
	for _, tech := range allTech {
		count := 0
		for _, e := range experiences {
			if containsTag(e.TechStack, tech) {
				count++
			}
		}
		for _, p := range projects {
			if containsTag(p.TechStack, tech) {
				count++
			}
		}
		usages = append(usages, techUsage{tech: tech, count: count})
	}

	// Stable sort keeps first-seen order on equal counts.
	for i := 1; i < len(usages); i++ {
		for j := i; j > 0 && usages[j].count > usages[j-1].count; j-- {
			usages[j], usages[j-1] = usages[j-1], usages[j]
		}
	}

	if len(usages) > n {
		usages = usages[:n]
	}
	return usages
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// composeContact enumerates contact channels in fixed order.
func composeContact(snap *content.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("I'd love to help you connect! 🤝\n\n")

	var email, linkedin, github string
	if snap.Profile != nil {
		email, linkedin, github = snap.Profile.Email, snap.Profile.LinkedIn, snap.Profile.GitHub
	}

	if email != "" {
		fmt.Fprintf(&sb, "📧 **Email** (Best for professional inquiries)\n%s\n\n", email)
	}
	if linkedin != "" {
		fmt.Fprintf(&sb, "💼 **LinkedIn** (Great for networking)\n%s\n\n", linkedin)
	}
	if github != "" {
		fmt.Fprintf(&sb, "💻 **GitHub** (Check out the code!)\n%s\n\n", github)
	}

	if email == "" && linkedin == "" && github == "" {
		sb.WriteString("Contact information will be added soon. Check back later!")
	} else {
		sb.WriteString("Whether you're looking to collaborate, hire, or just chat about tech, feel free to reach out through any of these channels! Looking forward to connecting! 😊")
	}
	return sb.String()
}

// composeFollowUp restates the current topic. Returns false when the topic
// kind has no follow-up rendering, letting the caller fall through.
func composeFollowUp(topic Topic) (string, bool) {
	switch {
	case topic.Kind == TopicProject && topic.Project != nil:
		p := topic.Project
		reply := fmt.Sprintf("Sure! **%s** uses %s. ", p.Title, strings.Join(p.TechStack, ", "))
		if p.GitHubLink != "" {
			reply += fmt.Sprintf("The source code is available at: %s\n\n", p.GitHubLink)
		}
		return reply + "What else would you like to explore?", true

	case topic.IsNamed(TopicProjects):
		return `Of course! You can ask about any project by name, or try: "What's your best project?" or "Show me projects using React"`, true

	case topic.IsNamed(TopicExperiences):
		return `Absolutely! Ask about any company or role, like "Tell me about working at [company name]" or "What did you do as [role]?"`, true
	}
	return "", false
}

// composeFallback builds the suggestion list, skipping topics the user
// already raised in the last few turns.
func (c *Composer) composeFallback(recentUser []string, snap *content.Snapshot) string {
	askedProjects := false
	askedExperience := false
	for _, text := range recentUser {
		lower := strings.ToLower(text)
		if strings.Contains(lower, "project") {
			askedProjects = true
		}
		if strings.Contains(lower, "experience") || strings.Contains(lower, "work") {
			askedExperience = true
		}
	}

	var suggestions []string
	if !askedProjects && len(snap.Projects) > 0 {
		suggestions = append(suggestions, `"What projects have you built?"`)
	}
	if !askedExperience && len(snap.Experience) > 0 {
		suggestions = append(suggestions, `"Tell me about your work experience"`)
	}
	if len(snap.Education) > 0 {
		suggestions = append(suggestions, `"Where did you study?"`)
	}
	suggestions = append(suggestions, `"What are your top skills?"`)

	var sb strings.Builder
	sb.WriteString("Hmm, I'm not quite sure what you're asking about. 🤔\n\nI'm pretty smart and can understand natural language, so feel free to ask me anything! Here are some ideas:\n\n")
	for _, s := range suggestions {
		fmt.Fprintf(&sb, "💡 %s\n", s)
	}
	sb.WriteString("\nOr just ask naturally like: \"What's the coolest project?\" or \"Do you know React?\"")
	return sb.String()
}

// CalculateDuration renders the length of a position. "Ongoing" when the end
// date is absent or "present"; otherwise the integer year difference, with a
// floor message for zero. Unparseable dates render as empty.
func CalculateDuration(start, end string) string {
	if end == "" || strings.EqualFold(end, "present") {
		return "Ongoing"
	}
	startYear, err1 := strconv.Atoi(yearOf(start))
	endYear, err2 := strconv.Atoi(yearOf(end))
	if err1 != nil || err2 != nil {
		return ""
	}
	years := endYear - startYear
	if years <= 0 {
		return "Less than a year"
	}
	return fmt.Sprintf("%d year%s", years, plural(years))
}

// totalYears sums year spans across all positions; open-ended positions run
// to the current year.
func totalYears(experiences []content.Experience) int {
	total := 0
	currentYear := time.Now().Year()
	for _, e := range experiences {
		start, err := strconv.Atoi(yearOf(e.StartDate))
		if err != nil {
			continue
		}
		end := currentYear
		if e.EndDate != "" && !strings.EqualFold(e.EndDate, "present") {
			parsed, err := strconv.Atoi(yearOf(e.EndDate))
			if err != nil {
				continue
			}
			end = parsed
		}
		total += end - start
	}
	return total
}

// yearOf extracts a trailing 4-digit year from date strings like "Jan 2022"
// or "2022"; returns the input unchanged when no year is found.
var yearPattern = regexp.MustCompile(`\d{4}`)

func yearOf(date string) string {
	if match := yearPattern.FindString(date); match != "" {
		return match
	}
	return date
}

// distinctTech returns the deduplicated union of tech tags, preserving
// first-seen order across experience then projects.
func distinctTech(experiences []content.Experience, projects []content.Project) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(tags []string) {
		for _, t := range tags {
			lower := strings.ToLower(t)
			if !seen[lower] {
				seen[lower] = true
				out = append(out, t)
			}
		}
	}
	for _, e := range experiences {
		add(e.TechStack)
	}
	for _, p := range projects {
		add(p.TechStack)
	}
	return out
}

func distinctTechFromProjects(projects []content.Project) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range projects {
		for _, t := range p.TechStack {
			lower := strings.ToLower(t)
			if !seen[lower] {
				seen[lower] = true
				out = append(out, t)
			}
		}
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// truncate caps a string at n runes, appending an ellipsis when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
