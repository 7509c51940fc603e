package view

import "strings"

const (
	senderBot  = "bot"
	senderUser = "user"

	ChatGreeting   = "Hello! I am your AI Health Assistant. How are you feeling today?"
	ChatDisclaimer = "This assistant does not replace professional medical advice. Always consult a real doctor."

	fallbackDefault = "I could not reach the assistant right now. Remember to drink water and rest, and call your doctor if you feel unwell."
)

// fallbackReply answers locally when the assistant is unavailable.
func fallbackReply(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "headache"):
		return "For a headache, rest in a quiet, dark room. If it persists, please contact your doctor."
	case strings.Contains(lower, "diabetes"), strings.Contains(lower, "eat"):
		return "For diabetes management, prioritize fiber-rich foods, leafy greens, and avoid sugary drinks."
	case strings.Contains(lower, "missed") && strings.Contains(lower, "medicine"):
		return "If you missed your medicine, usually you should take it as soon as you remember. " +
			"However, if it's almost time for the next dose, skip the missed one. Never double up!"
	default:
		return fallbackDefault
	}
}
