package respond

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// ErrorResponse pairs an HTTP status with its error body.
type ErrorResponse struct {
	Status int
	Body   ErrorBody
}

// FormatError builds the uniform error payload. Only the first details value
// is used; it defaults to "".
func FormatError(status int, message string, details ...string) ErrorResponse {
	d := ""
	if len(details) > 0 {
		d = details[0]
	}
	return ErrorResponse{
		Status: status,
		Body:   ErrorBody{Error: message, Details: d},
	}
}
