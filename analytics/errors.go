package analytics

import "fmt"

// APIError is returned when the service rejects a send: either a non-200
// status, or a well-formed response envelope with success set to false.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// ContractError is returned when the service replies with 200 and valid JSON
// but the envelope is missing a field the API contract guarantees. A
// misbehaving or upgraded remote can produce these; callers handle them like
// any other failed send.
type ContractError struct {
	Field string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("malformed API response: missing %s field", e.Field)
}
