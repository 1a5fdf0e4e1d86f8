package harness

// Trace event types.
const (
	EventInvocation = "invocation"
	EventCallback   = "callback"
)

// TraceEvent is one invocation or one callback delivery.
type TraceEvent struct {
	Type    string   `json:"type"`
	Seq     int64    `json:"seq"`
	ID      string   `json:"id,omitempty"`
	Target  string   `json:"target,omitempty"`
	Args    []string `json:"args,omitempty"`
	Outcome string   `json:"outcome,omitempty"`
	Text    string   `json:"text,omitempty"`
	Error   string   `json:"error,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses and assertions match.
	Pass bool `json:"pass"`

	// Trace contains invocations and callback deliveries in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Callbacks returns the recorded callback messages in order.
func (r *Result) Callbacks() []string {
	var msgs []string
	for _, e := range r.Trace {
		if e.Type == EventCallback {
			msgs = append(msgs, e.Message)
		}
	}
	return msgs
}
