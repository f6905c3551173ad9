package chatbot_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"taskflow/internal/chatbot"
)

func TestReply(t *testing.T) {
	tests := []struct {
		input string
		want  string // substring of the expected reply
	}{
		{"Hello there", "How can I assist you"},
		{"HEY", "How can I assist you"},
		{"Create a new task for tomorrow", "create a new task"},
		{"What is due today?", "3 tasks due today"},
		{"Show me my top priority", "highest priority tasks"},
		{"Summarize my calendar for next week", "5 events scheduled"},
		{"I need help", "manage your tasks"},
		{"quantum mechanics", "not sure how to help"},
		{"", "not sure how to help"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := chatbot.Reply(tt.input)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Reply(%q) = %q, want substring %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestReply_SubstringMatching(t *testing.T) {
	// "reschedule" contains "schedule", which is checked first
	got := chatbot.Reply("please reschedule my meetings")
	if !strings.Contains(got, "5 events scheduled") {
		t.Errorf("expected schedule reply, got %q", got)
	}
}

func TestReply_IsPure(t *testing.T) {
	if chatbot.Reply("priority") != chatbot.Reply("priority") {
		t.Error("expected identical replies for identical input")
	}
}

func TestBot_RespondWaits(t *testing.T) {
	bot := chatbot.New(20 * time.Millisecond)

	start := time.Now()
	reply, err := bot.Respond(context.Background(), "help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("expected at least 20ms delay, got %v", elapsed)
	}
	if reply != chatbot.Reply("help") {
		t.Errorf("unexpected reply %q", reply)
	}
}

func TestBot_RespondCancelled(t *testing.T) {
	bot := chatbot.New(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bot.Respond(ctx, "help")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNew_NegativeDelayUsesDefault(t *testing.T) {
	if bot := chatbot.New(-1); bot.Delay != chatbot.DefaultDelay {
		t.Errorf("expected default delay, got %v", bot.Delay)
	}
}
