package apierror

// Action is what a caller does with a failure.
type Action string

const (
	ActionReauthenticate Action = "reauthenticate"
	ActionConflict       Action = "conflict"
	ActionRateLimit      Action = "rate_limit"
	ActionConnectivity   Action = "connectivity"
	ActionShowError      Action = "show_error"
)

const (
	conflictFallback  = "This item already exists."
	rateLimitFallback = "Too many requests. Please wait a moment and try again."
)

// Presentation is a normalized failure framed for display.
type Presentation struct {
	Action  Action `json:"action"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Present branches on status: 401 re-authenticates, 409 is a conflict, 429 a
// rate limit, 0 a connectivity problem; anything else shows title and
// message as they are.
func Present(e *NormalizedError) Presentation {
	p := Presentation{Action: ActionShowError, Title: e.ErrorTitle, Message: e.Message}

	switch e.Status {
	case 401:
		p.Action = ActionReauthenticate
	case 409:
		p.Action = ActionConflict
		if p.Message == "" {
			p.Message = conflictFallback
		}
	case 429:
		p.Action = ActionRateLimit
		if p.Message == "" {
			p.Message = rateLimitFallback
		}
	case 0:
		p.Action = ActionConnectivity
	}
	return p
}

// ShowError renders the alert text for a failure: the title followed by the
// validation lines when there are any, otherwise by the message.
func ShowError(e *NormalizedError) string {
	if v := FormatValidationErrors(e.ValidationErrors); v != "" {
		return e.ErrorTitle + "\n\n" + v
	}
	return e.ErrorTitle + "\n" + e.Message
}
