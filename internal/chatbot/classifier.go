package chatbot

import (
	"strings"
	"sync"

	"github.com/REHANAMD/InternGenie/pkg/utils"
)

// Intents the bot can answer. Order matters: classification walks this list
// and earlier intents win ties, which keeps answers deterministic.
const (
	IntentGreeting    = "greeting"
	IntentFarewell    = "farewell"
	IntentLocation    = "location"
	IntentSkills      = "skills"
	IntentStipend     = "stipend"
	IntentDuration    = "duration"
	IntentCompany     = "company"
	IntentApplication = "application"
	IntentMatch       = "match"
	IntentProfile     = "profile"
	IntentDefault     = "default"
)

var intentOrder = []string{
	IntentGreeting, IntentFarewell, IntentLocation, IntentSkills,
	IntentStipend, IntentDuration, IntentCompany, IntentApplication,
	IntentMatch, IntentProfile,
}

var baseKeywords = map[string][]string{
	IntentGreeting:    {"hi", "hello", "hey", "good morning", "good afternoon", "good evening"},
	IntentFarewell:    {"bye", "goodbye", "thanks", "thank you", "see you"},
	IntentLocation:    {"location", "where", "place", "city", "address", "remote", "office"},
	IntentSkills:      {"skill", "requirement", "required", "programming", "language", "qualification"},
	IntentStipend:     {"stipend", "salary", "pay", "money", "compensation", "wage"},
	IntentDuration:    {"duration", "how long", "months", "weeks", "period"},
	IntentCompany:     {"company", "organization", "firm", "culture", "about the"},
	IntentApplication: {"apply", "application", "how to", "process", "submit"},
	IntentMatch:       {"match", "qualified", "suitable", "fit", "percentage", "chances"},
	IntentProfile:     {"my profile", "my skills", "my experience", "my education", "my resume"},
}

// Classifier maps a free-text question to an intent via keyword matching.
// Feedback-driven retraining promotes new keywords at runtime, so lookups
// take a read lock.
type Classifier struct {
	mu       sync.RWMutex
	keywords map[string][]string
}

// NewClassifier creates a classifier seeded with the base keyword lists
func NewClassifier() *Classifier {
	kw := make(map[string][]string, len(baseKeywords))
	for intent, words := range baseKeywords {
		kw[intent] = append([]string(nil), words...)
	}
	return &Classifier{keywords: kw}
}

// Classify returns the best-matching intent and a confidence in (0,1]
func (c *Classifier) Classify(question string) (string, float64) {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return IntentDefault, 0.3
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	bestIntent := IntentDefault
	bestHits := 0
	for _, intent := range intentOrder {
		hits := 0
		for _, kw := range c.keywords[intent] {
			if strings.Contains(q, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestIntent = intent
			bestHits = hits
		}
	}

	if bestHits == 0 {
		return IntentDefault, 0.3
	}

	confidence := 0.6 + 0.1*float64(bestHits-1)
	if confidence > 0.95 {
		confidence = 0.95
	}
	return bestIntent, confidence
}

// Promote adds salient words from a positively-rated question to an
// intent's keyword list. Short stopwords are skipped.
func (c *Classifier) Promote(intent, question string) int {
	if _, ok := baseKeywords[intent]; !ok {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	added := 0
	for _, word := range strings.Fields(strings.ToLower(question)) {
		word = strings.Trim(word, ".,!?\"'")
		if len(word) < 4 || stopwords[word] {
			continue
		}
		if utils.Contains(c.keywords[intent], word) {
			continue
		}
		c.keywords[intent] = append(c.keywords[intent], word)
		added++
	}
	return added
}

// KeywordCount reports the current vocabulary size for one intent
func (c *Classifier) KeywordCount(intent string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.keywords[intent])
}

var stopwords = map[string]bool{
	"this": true, "that": true, "what": true, "with": true, "have": true,
	"does": true, "about": true, "tell": true, "know": true, "will": true,
	"would": true, "could": true, "please": true, "internship": true,
	"position": true, "role": true,
}
