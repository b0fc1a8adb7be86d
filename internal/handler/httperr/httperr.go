// Package httperr defines the JSON error envelope written by the recovery
// and error middleware.
package httperr

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// New builds an envelope carrying a single public message. Anything the
// client must not see stays on the error chain, not in here.
func New(status int, msg string) Response {
	resp := Response{Status: status}
	resp.Error.Message = msg
	return resp
}
