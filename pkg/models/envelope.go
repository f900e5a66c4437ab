package models

import "encoding/json"

// CodeSuccess is the envelope code the backend uses for a successful call.
const CodeSuccess = 1

// Envelope wraps every response body returned by the energy API.
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// OK reports whether the envelope carries the success sentinel.
func (e Envelope) OK() bool {
	return e.Code == CodeSuccess
}
