package generation

import (
	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/llm"
)

// Kind selects the validation rule and fallback pool for a request.
type Kind string

const (
	KindInsight      Kind = "insight"
	KindChatReply    Kind = "chat_reply"
	KindMission      Kind = "mission"
	KindEmotionLabel Kind = "emotion_label"
)

func (k Kind) Valid() bool {
	switch k {
	case KindInsight, KindChatReply, KindMission, KindEmotionLabel:
		return true
	}
	return false
}

// Task maps the kind to the endpoint task whose parameters apply.
func (k Kind) Task() llm.TaskType {
	switch k {
	case KindInsight:
		return llm.TaskInsight
	case KindChatReply:
		return llm.TaskChatReply
	case KindMission:
		return llm.TaskMission
	case KindEmotionLabel:
		return llm.TaskEmotion
	}
	return llm.TaskType(k)
}

// Request is a rendered prompt plus the parameters that select validation
// and fallback content.
type Request struct {
	Kind         Kind
	Prompt       string
	SystemPrompt string

	Category      domain.InsightCategory // Insight fallback key
	ExchangeCount int                    // ChatReply: exchanges before this one
	Location      string                 // Mission: free-form place descriptor
}

// Fallback reasons.
const (
	ReasonDisabled          = "disabled"
	ReasonCanceled          = "canceled"
	ReasonTimeout           = "timeout"
	ReasonUnavailable       = "unavailable"
	ReasonUnauthorized      = "unauthorized"
	ReasonRetryExhausted    = "retry_exhausted"
	ReasonTerminal          = "terminal"
	ReasonInvalidOutput     = "invalid_output"
	ReasonValidation        = "validation"
	ReasonUnrecognizedLabel = "unrecognized_label"
	ReasonUnknownKind       = "unknown_kind"
)

// Result is the outcome of Generate. Content is always usable; Fallback and
// Reason tell whether it came from the endpoint or from a static pool.
type Result struct {
	Kind    Kind
	Content string

	// Mission parts.
	Title       string
	Description string

	// EmotionLabel outcome.
	Emotion domain.Emotion

	Fallback bool
	Reason   string
	Attempts int
}

// Ok reports whether the content came from the endpoint.
func (r Result) Ok() bool { return !r.Fallback }
