// Package shared holds the call accounting types passed between the
// suggestion provider, the planner and the metrics store.
package shared

import (
	"time"
)

// TokenUsage counts the tokens one provider call consumed.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// Empty reports whether the call consumed no tokens, as when the provider
// failed before answering.
func (u TokenUsage) Empty() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// AgentMeta describes one provider call made on behalf of a named step.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}
