package errx

// Response is the JSON body rendered for a failed request.
type Response struct {
	Error     string         `json:"error"`
	Code      string         `json:"code"`
	Type      string         `json:"type"`
	Status    int            `json:"status"`
	RequestID string         `json:"request_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// ResponseOf converts any error into a Response. Errors that are not *Error
// are reported as a generic internal error so internals never leak.
func ResponseOf(err error, requestID string) Response {
	if e, ok := As(err); ok {
		r := Response{
			Error:     e.Message,
			Code:      e.Code,
			Type:      string(e.Type),
			Status:    e.HTTPStatus,
			RequestID: requestID,
		}
		if len(e.Details) > 0 {
			r.Details = e.Details
		}
		return r
	}
	return Response{
		Error:     "An unexpected error occurred",
		Code:      "INTERNAL_ERROR",
		Type:      string(TypeInternal),
		Status:    500,
		RequestID: requestID,
	}
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	if e, ok := As(err); ok {
		return e.HTTPStatus
	}
	return 500
}
