package ipc

import "encoding/json"

// Method names understood by the daemon
const (
	MethodInit     = "init"
	MethodGuiInit  = "guiInit"
	MethodDispatch = "dispatch"
	MethodClose    = "close"
)

// MessageEnvelope is the top-level message structure for all communications
type MessageEnvelope struct {
	Type     string    `json:"type"` // "request" or "response"
	Request  *Request  `json:"request,omitempty"`
	Response *Response `json:"response,omitempty"`
}

// Request represents one command sent to the daemon
type Request struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response represents the daemon's answer
type Response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ErrorInfo      `json:"error,omitempty"`
}

// ErrorInfo represents an error in a response
type ErrorInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error codes mirroring the daemon's protocol errors. Precondition
// violations are expected under races between repeated key presses and the
// daemon's own timing, so clients treat them as warnings.
const (
	CodeInternal      = 1
	CodeAlreadyActive = 10
	CodeNotActive     = 11
	CodeNoCandidates  = 12
)

// NewRequest creates a new request envelope
func NewRequest(id, method string, params json.RawMessage) *MessageEnvelope {
	return &MessageEnvelope{
		Type: "request",
		Request: &Request{
			ID:     id,
			Method: method,
			Params: params,
		},
	}
}

// NewResponse creates a success response envelope
func NewResponse(id string, result json.RawMessage) *MessageEnvelope {
	return &MessageEnvelope{
		Type:     "response",
		Response: &Response{ID: id, Result: result},
	}
}

// NewErrorResponse creates an error response envelope
func NewErrorResponse(id string, code int, message string) *MessageEnvelope {
	return &MessageEnvelope{
		Type:     "response",
		Response: &Response{ID: id, Error: &ErrorInfo{Code: code, Message: message}},
	}
}

// IsError returns true if the response contains an error
func (r *Response) IsError() bool {
	return r.Error != nil
}

// GetError returns the error message if present
func (r *Response) GetError() string {
	if r.Error != nil {
		return r.Error.Message
	}
	return ""
}
