package service

import (
	"fmt"
	"strings"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
	"github.com/SydneyWamalwa/customer-service-ai/internal/tenant"
)

// fallbackInput is what the canned-reply generator has to work with when
// the generation service is unavailable.
type fallbackInput struct {
	Message    string
	Ticket     *domain.TicketInfo
	TicketText string
	FAQText    string
}

var greetingWords = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}

var capabilityPhrases = []string{"what can you do", "how can you help", "what do you do", "help me"}

// fallbackReply produces a keyword-based canned reply. The customer
// always gets a non-empty message, never a raw error.
func fallbackReply(in fallbackInput, cfg tenant.Config) string {
	lower := strings.ToLower(strings.TrimSpace(in.Message))

	for _, w := range greetingWords {
		if strings.HasPrefix(lower, w) {
			return fmt.Sprintf("%s I'm %s. %s", cfg.Greeting, cfg.AgentName, "What can I do for you?")
		}
	}

	for _, p := range capabilityPhrases {
		if strings.Contains(lower, p) {
			return fmt.Sprintf("I'm %s. I can answer questions, look into orders and accounts, and raise issues with our team when needed.", cfg.AgentName)
		}
	}

	if in.Ticket != nil {
		switch in.Ticket.Status {
		case domain.TicketStatusPendingApproval:
			return "Your request has been logged and is waiting for review by our team. We'll get back to you as soon as it's been looked at."
		default:
			if in.TicketText != "" {
				return in.TicketText
			}
			return "We've logged your issue and taken the steps available to us. Let us know if anything is still unresolved."
		}
	}

	if in.FAQText != "" {
		return fmt.Sprintf("Here's what I found that may help: %s", truncate(in.FAQText, 400))
	}

	return fmt.Sprintf("I'm sorry, I'm having trouble answering right now. I'm %s and I'm here to help - could you try rephrasing, or ask me again in a moment?", cfg.AgentName)
}
