package chat

// Source identifies which responder produced the answer.
type Source string

const (
	SourceUpstream Source = "upstream"
	SourceCache    Source = "cache"
	SourceMock     Source = "mock"
)

// Request is the inbound chat payload. Settings fields are pointers so
// an absent knob is distinguishable from an explicit zero.
type Request struct {
	Message        string           `json:"message"`
	ConversationID string           `json:"conversationId,omitempty"`
	Settings       *RequestSettings `json:"settings,omitempty"`
}

type RequestSettings struct {
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"maxTokens,omitempty"`
}

// Response is the unified envelope returned to the caller. Response is
// always non-empty once returned; the mock fallback guarantees that
// even when the upstream fails.
type Response struct {
	Response       string    `json:"response"`
	ConversationID string    `json:"conversationId"`
	Timestamp      string    `json:"timestamp"`
	Source         Source    `json:"source"`
	Metadata       *Metadata `json:"metadata,omitempty"`
	Error          string    `json:"error,omitempty"`
}

type Metadata struct {
	Sources []string `json:"sources"`
}

// ValidationError marks input the caller must fix. The HTTP layer maps
// it to a 400 instead of the fallback path.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}
