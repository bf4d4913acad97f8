package store

import (
	"strings"
	"testing"
	"time"
)

func TestSynthesizeReplyCategories(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)

	tests := []struct {
		name      string
		text      string
		specialty string
		want      string
	}{
		{
			name:      "greeting",
			text:      "hello there",
			specialty: "property management",
			want:      "Hello there! I'm your property management assistant. How can I help you today?",
		},
		{
			name:      "greeting case insensitive",
			text:      "HEY, anyone around?",
			specialty: "plumbing",
			want:      "Hello there! I'm your plumbing assistant. How can I help you today?",
		},
		{
			name:      "capabilities with specialty",
			text:      "what can you do for me",
			specialty: "plumbing",
			want:      "As your plumbing assistant, I can help you with anything related to plumbing. What specific assistance do you need?",
		},
		{
			name:      "capabilities general",
			text:      "what can you do",
			specialty: "general",
			want:      "I can help you with a wide range of topics including answering questions, providing information, or just chatting. What would you like to know?",
		},
		{
			name:      "thanks",
			text:      "ok thanks a lot",
			specialty: "general",
			want:      "You're welcome! Is there anything else I can assist you with?",
		},
		{
			name:      "farewell",
			text:      "ok goodbye then",
			specialty: "general",
			want:      "Goodbye! Feel free to message me anytime you need assistance.",
		},
		{
			name:      "weather",
			text:      "how is the weather outside right now",
			specialty: "general",
			want:      "I don't have real-time weather data, but I'd be happy to discuss the weather forecast if you had access to that information.",
		},
		{
			name:      "time",
			text:      "could you tell the time please",
			specialty: "general",
			want:      "The current time is 3:09:26 PM.",
		},
		{
			name:      "date",
			text:      "remind me of our inspection date soon",
			specialty: "general",
			want:      "Today is 3/14/2025.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := synthesizeReply(tt.text, tt.specialty, now)
			if got != tt.want {
				t.Errorf("synthesizeReply(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSynthesizeReplyFallbacks(t *testing.T) {
	now := time.Now()

	t.Run("short query restates the text", func(t *testing.T) {
		got := synthesizeReply("leaky faucet", "general", now)
		if !strings.Contains(got, `"leaky faucet"`) {
			t.Errorf("short query reply should quote the text, got %q", got)
		}
	})

	t.Run("keyword extraction picks long words, max three", func(t *testing.T) {
		got := synthesizeReply("my kitchen ceiling started leaking near the window yesterday morning", "property management", now)
		if !strings.Contains(got, "kitchen, ceiling, started") {
			t.Errorf("keyword reply = %q", got)
		}
	})

	t.Run("long message with only short words", func(t *testing.T) {
		got := synthesizeReply("can you do it for me now", "general", now)
		if !strings.Contains(got, "Thank you for your message") {
			t.Errorf("generic reply expected, got %q", got)
		}
	})
}

func TestSynthesizeReplyDeterministic(t *testing.T) {
	now := time.Now()
	a := synthesizeReply("hi", "property management", now)
	b := synthesizeReply("hi", "property management", now)
	if a != b {
		t.Errorf("same input produced different replies: %q vs %q", a, b)
	}
}
