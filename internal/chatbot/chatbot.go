// Package chatbot implements the task assistant: a fixed keyword lookup
// answered after a simulated think time.
package chatbot

import (
	"context"
	"strings"
	"time"
)

// DefaultDelay is the simulated response latency.
const DefaultDelay = time.Second

// Greeting is the assistant's opening message.
const Greeting = "Hi there! I'm your AI task assistant. How can I help you today?"

const fallback = "I'm not sure how to help with that yet. As your AI assistant, I can help you manage tasks, schedule events, or provide summaries of your work."

// rule answers when match reports true for the lowercased input.
type rule struct {
	match func(s string) bool
	reply string
}

// rules are checked in order; the first match wins.
var rules = []rule{
	{
		match: containsAny("hello", "hi", "hey"),
		reply: "Hello! How can I assist you with your tasks today?",
	},
	{
		match: func(s string) bool {
			return strings.Contains(s, "task") && containsAny("create", "add", "new")(s)
		},
		reply: "I'd be happy to help you create a new task. What's the title and when is it due?",
	},
	{
		match: containsAny("due today", "today"),
		reply: "You have 3 tasks due today: 'Complete project proposal' (high priority), 'Go for a 5k run' (low priority), and 'Buy groceries' (high priority).",
	},
	{
		match: containsAny("priority"),
		reply: "Your highest priority tasks are: 'Complete project proposal', 'Prepare for team meeting', and 'Buy groceries'.",
	},
	{
		match: containsAny("calendar", "schedule"),
		reply: "Next week you have 5 events scheduled, including a team meeting on Monday at 10:00 AM and a project deadline on Wednesday.",
	},
	{
		match: containsAny("reschedule"),
		reply: "I can help reschedule your meetings. You have a team standup at 9:00 AM and a client call at 2:00 PM today. Which one would you like to reschedule?",
	},
	{
		match: containsAny("help"),
		reply: "I can help you manage your tasks, schedule events, set reminders, prioritize work, and provide summaries of your upcoming responsibilities. Just let me know what you need!",
	},
}

// Reply returns the assistant's answer to input. It is a pure function.
//
// Matching is by substring, so "reschedule" is answered by the schedule
// rule and "this" by the greeting rule.
func Reply(input string) string {
	s := strings.ToLower(input)
	for _, r := range rules {
		if r.match(s) {
			return r.reply
		}
	}
	return fallback
}

// Bot answers messages after Delay.
type Bot struct {
	Delay time.Duration
}

// New creates a Bot with the given delay. A negative delay means DefaultDelay.
func New(delay time.Duration) *Bot {
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Bot{Delay: delay}
}

// Respond waits for the simulated latency and returns the reply.
// It returns ctx.Err() if ctx ends first.
func (b *Bot) Respond(ctx context.Context, input string) (string, error) {
	if b.Delay > 0 {
		timer := time.NewTimer(b.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return Reply(input), nil
}

func containsAny(words ...string) func(string) bool {
	return func(s string) bool {
		for _, w := range words {
			if strings.Contains(s, w) {
				return true
			}
		}
		return false
	}
}
