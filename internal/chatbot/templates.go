package chatbot

import (
	"strings"
	"sync"
)

// Templates per intent. Placeholders are filled from the internship and
// candidate profile before the reply goes out.
var templates = map[string][]string{
	IntentGreeting: {
		"Hello! I'm here to help you with questions about {title} at {company}. What would you like to know?",
		"Hi there! Ask me anything about the {title} internship.",
	},
	IntentFarewell: {
		"You're welcome! Good luck with your application to {company}.",
		"Glad I could help. Best of luck!",
	},
	IntentLocation: {
		"The {title} internship at {company} is based in {location}.",
		"This position is located in {location}.",
	},
	IntentSkills: {
		"The {title} role requires: {required_skills}. Nice-to-have skills: {preferred_skills}.",
		"Required skills for this internship are {required_skills}.",
	},
	IntentStipend: {
		"The stipend for the {title} internship is {stipend}.",
		"{company} offers {stipend} for this position.",
	},
	IntentDuration: {
		"The {title} internship runs for {duration}.",
		"This position lasts {duration}.",
	},
	IntentCompany: {
		"{company} is offering this {title} internship in {location}. {description}",
		"This role is with {company}. {description}",
	},
	IntentApplication: {
		"To apply for the {title} internship, use the Apply button on the posting. Your profile is submitted automatically.",
		"Applications for {company} go through the posting page; just hit Apply and your saved profile is sent along.",
	},
	IntentMatch: {
		"{explanation}",
		"Here's how you stack up: {explanation}",
	},
	IntentProfile: {
		"Your profile lists these skills: {candidate_skills}, with {candidate_experience} years of experience.",
		"According to your profile you know {candidate_skills} and have {candidate_experience} years of experience.",
	},
	IntentDefault: {
		"I can help with questions about location, skills, stipend, duration, the company, applying, or how well you match this internship.",
		"I'm not sure about that one. Try asking about the required skills, stipend, location, or your match score.",
	},
}

const securityResponse = "I can't help with account credentials or security details. " +
	"Please use the password reset flow on the login page if you're having trouble signing in."

var securityTerms = []string{"password", "hack", "credential", "token", "api key", "secret"}

// isSecuritySensitive reports whether a question pokes at credentials or
// other data the bot must not discuss.
func isSecuritySensitive(question string) bool {
	q := strings.ToLower(question)
	for _, term := range securityTerms {
		if strings.Contains(q, term) {
			return true
		}
	}
	return false
}

// responder rotates through the templates of each intent with a counter,
// so repeated questions get varied but reproducible answers.
type responder struct {
	mu       sync.Mutex
	counters map[string]int
}

func newResponder() *responder {
	return &responder{counters: make(map[string]int)}
}

func (r *responder) next(intent string) string {
	choices := templates[intent]
	if len(choices) == 0 {
		choices = templates[IntentDefault]
	}

	r.mu.Lock()
	idx := r.counters[intent] % len(choices)
	r.counters[intent]++
	r.mu.Unlock()

	return choices[idx]
}

// fill substitutes {placeholder} tokens, dropping any left unresolved
func fill(template string, data map[string]string) string {
	out := template
	for key, value := range data {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return strings.TrimSpace(out)
}
