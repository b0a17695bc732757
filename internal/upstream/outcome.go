package upstream

// OutcomeKind classifies the result of a single upstream attempt. The
// orchestrator branches on this closed set instead of string-matching
// error text.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeUpstreamError
	OutcomeTimeout
	OutcomeNetworkFailure
	OutcomeNotConfigured
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeUpstreamError:
		return "upstream_error"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeNetworkFailure:
		return "network_failure"
	case OutcomeNotConfigured:
		return "not_configured"
	default:
		return "unknown"
	}
}

// Outcome is the transient result of one Invoke call. Text and Sources
// are set only for OutcomeSuccess; Status only for OutcomeUpstreamError.
type Outcome struct {
	Kind    OutcomeKind
	Text    string
	Sources []string
	Status  int
	Message string
}

// Settings are the generation knobs forwarded to the upstream agent.
// The orchestrator clamps them into range before they get here.
type Settings struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}
