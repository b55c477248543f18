package assistant

// Fixed response template sets. The composer picks one at random; the sets
// are exported indirectly through tests that assert membership.

var casualChatTemplates = []string{
	"I'm doing great, thanks for asking! 😊 I'm excited to tell you all about %s. What would you like to know?",
	"I'm wonderful! 🌟 Always happy to chat about this impressive career. What interests you most?",
	"Doing fantastic! 🚀 Ready to explore some amazing projects and experience. What shall we discuss?",
}

var greetingTemplates = []string{
	"Hey there! 😊 I'm so glad you're here. What would you like to know about %s?",
	"Hello! 👋 Great to chat with you! I'm an expert on everything in this portfolio. What interests you most?",
	"Hi! 🌟 Ready to explore an impressive professional journey? What shall we discuss first?",
}

var farewellTemplates = []string{
	"Thank you for your time! 🙏 Feel free to come back anytime if you have more questions. Have a great day!",
	"You're very welcome! 😊 Don't hesitate to reach out if you need anything else. Take care!",
	"It was a pleasure chatting with you! ✨ Hope you found what you were looking for. Goodbye!",
}

var positiveTemplates = []string{
	"Thank you! 😊 What would you like to know about the professional journey?",
	"Glad you think so! What aspect interests you most?",
	"Thanks! Happy to share more. What would you like to explore?",
}

const helpTemplate = `Of course! I'm here to help you learn everything about %s. I'm quite intelligent, so feel free to ask naturally! 🧠

**You can ask me things like:**

💬 "What's the most impressive project?"
💬 "Tell me about work at [company name]"
💬 "What technologies are you best at?"
💬 "Show me recent work"
💬 "How can I get in touch?"
💬 "What's your educational background?"

I understand context, remember our conversation, and can handle follow-up questions. Just chat naturally! 😊`

// fallbackName substitutes for the owner's name when the profile is absent.
const fallbackName = "this developer"
