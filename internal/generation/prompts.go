package generation

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/fortune/internal/domain"
)

// PromptParams carries everything a renderer may place into a prompt.
type PromptParams struct {
	User          domain.UserInfo
	Category      domain.InsightCategory
	Message       string
	ExchangeCount int // exchanges already completed today
	Location      string
	Messages      []string
}

// PromptRenderer turns structured parameters into the exact text sent to the
// endpoint. The client treats its output as opaque.
type PromptRenderer interface {
	Render(kind Kind, p PromptParams) (system, user string)
}

// DefaultPrompts is the built-in English renderer.
type DefaultPrompts struct{}

var _ PromptRenderer = DefaultPrompts{}

const persona = "You are Ghostini, a small, friendly ghost who gives warm, upbeat advice."

func (DefaultPrompts) Render(kind Kind, p PromptParams) (string, string) {
	switch kind {
	case KindInsight:
		return persona, insightPrompt(p)
	case KindChatReply:
		return persona, chatPrompt(p)
	case KindMission:
		return persona, missionPrompt(p)
	case KindEmotionLabel:
		return "You classify the overall mood of short chat messages.", emotionPrompt(p)
	}
	return "", p.Message
}

func insightPrompt(p PromptParams) string {
	var b strings.Builder
	b.WriteString("Write today's fortune reading.\n\n")
	if p.User.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", p.User.Name)
	}
	if p.User.BirthDate != "" {
		fmt.Fprintf(&b, "Birth date: %s\n", p.User.BirthDate)
	}
	fmt.Fprintf(&b, "Topic: %s\n\n", p.Category.DisplayName())
	b.WriteString("Rules:\n")
	b.WriteString("1. 300 to 500 characters, positive and hopeful.\n")
	b.WriteString("2. Include concrete, practical advice.\n")
	fmt.Fprintf(&b, "3. Focus on %s.\n", strings.ToLower(p.Category.DisplayName()))
	b.WriteString("4. Friendly, warm tone.\n\n")
	b.WriteString("Reply with the reading only.")
	return b.String()
}

func chatPrompt(p PromptParams) string {
	turn := p.ExchangeCount + 1
	var b strings.Builder
	b.WriteString("Reply casually, with a friendly tone and an emoji or two, in 100 to 150 characters.\n\n")
	fmt.Fprintf(&b, "User message: %q\n", p.Message)
	fmt.Fprintf(&b, "Conversation turn: %d/%d\n\n", turn, domain.MaxChatExchanges)
	if turn >= domain.MaxChatExchanges {
		b.WriteString("This is the last turn. Let them know the chat is wrapping up and suggest one lucky action.")
	} else {
		b.WriteString("Listen, empathize, and offer one practical suggestion.")
	}
	return b.String()
}

func missionPrompt(p PromptParams) string {
	var b strings.Builder
	b.WriteString("Suggest today's lucky mission based on the user's location.\n\n")
	fmt.Fprintf(&b, "Location: %s\n\n", p.Location)
	b.WriteString("1. Something they can actually do.\n")
	b.WriteString("2. It should lift their mood.\n")
	b.WriteString("3. It can be finished within three hours.\n")
	b.WriteString("4. It uses places near that location (a park, a riverside run).\n\n")
	fmt.Fprintf(&b, "Format: title%sdescription\n", MissionDelimiter)
	fmt.Fprintf(&b, "Example: Riverside Run%sHow about a good run along the river today?", MissionDelimiter)
	return b.String()
}

func emotionPrompt(p PromptParams) string {
	var b strings.Builder
	b.WriteString("Read the user's chat messages and judge their overall feeling.\n\nMessages:\n")
	for _, m := range p.Messages {
		fmt.Fprintf(&b, "- %s\n", m)
	}
	labels := make([]string, len(domain.Emotions))
	for i, e := range domain.Emotions {
		labels[i] = string(e)
	}
	fmt.Fprintf(&b, "\nAnswer with exactly one of: %s\n", strings.Join(labels, ", "))
	b.WriteString("Reply with the label only (e.g. HAPPY).")
	return b.String()
}
