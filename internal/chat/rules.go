package chat

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Greeting is the assistant's first message in every conversation.
const Greeting = "Hello! I'm an AI assistant that can help you with a variety of tasks. " +
	"Feel free to ask me anything - from answering questions and explaining concepts " +
	"to helping you analyze information or generate ideas."

// Rule maps trigger phrases to a canned reply. A rule matches when the
// lower-cased message contains any of its phrases.
type Rule struct {
	Name     string
	Triggers []string
	Reply    string
}

// Rules are evaluated in order; the first match wins.
var Rules = []Rule{
	{
		Name:     "explain",
		Triggers: []string{"explain", "what is", "how does"},
		Reply: "I'll help you understand this topic. To provide the most accurate explanation, could you specify:\n\n" +
			"1. What specific aspects you'd like to learn about\n" +
			"2. Your current level of understanding\n" +
			"3. Any particular context you're interested in",
	},
	{
		Name:     "help",
		Triggers: []string{"help", "assist", "can you"},
		Reply: "I'd be happy to help you with that. To better assist you, could you:\n\n" +
			"1. Describe the specific outcome you're looking for\n" +
			"2. Provide any relevant details or constraints\n" +
			"3. Let me know if you have any preferences for how we approach this",
	},
	{
		Name:     "analyze",
		Triggers: []string{"analyze", "evaluate", "compare"},
		Reply: "I can help you analyze this. Let's break it down systematically:\n\n" +
			"1. What are the key elements you want to examine?\n" +
			"2. Are there specific criteria you want to focus on?\n" +
			"3. Would you like a detailed analysis or a high-level overview?",
	},
	{
		Name:     "create",
		Triggers: []string{"create", "generate", "write"},
		Reply: "I can help you create something. To get started:\n\n" +
			"1. What style or tone are you looking for?\n" +
			"2. Are there any specific elements you want to include?\n" +
			"3. Do you have any examples that could guide the direction?",
	},
	{
		Name:     "hello",
		Triggers: []string{"hello", "hi "},
		Reply: "Hello! How can I assist you today? I can help with:\n\n" +
			"1. Answering questions\n" +
			"2. Explaining concepts\n" +
			"3. Analyzing information\n" +
			"4. Generating ideas",
	},
}

// DefaultReply is used when no rule matches.
const DefaultReply = "I understand you're interested in this topic. To help you better, could you:\n\n" +
	"1. Clarify your specific question or goal\n" +
	"2. Provide any relevant context\n" +
	"3. Let me know what type of response would be most helpful"

// Match returns the first rule whose trigger occurs in message, or nil.
func Match(message string) *Rule {
	lower := cases.Lower(language.Und).String(message)
	for i := range Rules {
		for _, t := range Rules[i].Triggers {
			if strings.Contains(lower, t) {
				return &Rules[i]
			}
		}
	}
	return nil
}

// RuleReply returns the scripted reply for message.
func RuleReply(message string) string {
	if r := Match(message); r != nil {
		return r.Reply
	}
	return DefaultReply
}

// QuickReply is a one-tap canned user message.
type QuickReply struct {
	Label   string
	Message string
}

// QuickReplies are offered below the transcript.
var QuickReplies = []QuickReply{
	{Label: "Explain Topic", Message: "Explain this topic"},
	{Label: "Practice", Message: "Give me practice questions"},
	{Label: "Examples", Message: "Show me examples"},
	{Label: "Quiz Me", Message: "Quiz me on this topic"},
}

// VoiceTranscript is what the simulated voice input hears.
const VoiceTranscript = "Can you explain how memory works?"

// AttachmentTypes are the file extensions the chat accepts as attachments.
var AttachmentTypes = []string{".pdf", ".doc", ".docx", ".png", ".jpg", ".jpeg", ".gif"}

// AttachmentMessage is the user message posted for an attached file.
func AttachmentMessage(name string) string {
	return "Uploaded file: " + name
}
