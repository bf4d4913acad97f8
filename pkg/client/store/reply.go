package store

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	greetingRe = regexp.MustCompile(`(?i)^(hi|hello|hey|greetings)`)
	thanksRe   = regexp.MustCompile(`(?i)(thank|thanks|thx|appreciate it)`)
	farewellRe = regexp.MustCompile(`(?i)(bye|goodbye|see you|talk to you later)`)
)

// synthesizeReply produces the assistant's answer to text. The rule chain is
// ordered; the first match wins. Given the same text, specialty and clock it
// always returns the same string.
func synthesizeReply(text, specialty string, now time.Time) string {
	lower := strings.ToLower(text)

	switch {
	case greetingRe.MatchString(lower):
		return fmt.Sprintf("Hello there! I'm your %s assistant. How can I help you today?", specialty)
	case strings.Contains(lower, "what can you do") || strings.Contains(lower, "help me with"):
		if specialty == "general" {
			return "I can help you with a wide range of topics including answering questions, providing information, or just chatting. What would you like to know?"
		}
		return fmt.Sprintf("As your %s assistant, I can help you with anything related to %s. What specific assistance do you need?", specialty, specialty)
	case thanksRe.MatchString(lower):
		return "You're welcome! Is there anything else I can assist you with?"
	case farewellRe.MatchString(lower):
		return "Goodbye! Feel free to message me anytime you need assistance."
	case strings.Contains(lower, "weather"):
		return "I don't have real-time weather data, but I'd be happy to discuss the weather forecast if you had access to that information."
	case strings.Contains(lower, "time"):
		return fmt.Sprintf("The current time is %s.", now.Format("3:04:05 PM"))
	case strings.Contains(lower, "date"):
		return fmt.Sprintf("Today is %s.", now.Format("1/2/2006"))
	}

	words := strings.Fields(text)
	if len(words) <= 3 {
		return fmt.Sprintf("I understand you're asking about %q. Can you provide more details so I can help you better?", text)
	}

	var keywords []string
	for _, w := range words {
		if len(w) > 4 {
			keywords = append(keywords, w)
			if len(keywords) == 3 {
				break
			}
		}
	}
	if len(keywords) > 0 {
		return fmt.Sprintf("I see you're interested in %s. As your %s assistant, I'm here to help with that. Could you tell me more specifically what you're looking for?",
			strings.Join(keywords, ", "), specialty)
	}

	snippet := text
	if len(snippet) > 30 {
		snippet = snippet[:30]
	}
	return fmt.Sprintf("Thank you for your message. I'm processing your request about %q... How else can I assist you with %s topics?", snippet, specialty)
}
