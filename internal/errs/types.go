package errs

import "strings"

// FieldError represents a single field-level validation error.
//
//	{ "field": "dni", "error": "is required" }
type FieldError struct {
	// Field is the lowercased field name the error relates to.
	Field string `json:"field"`

	// Error is the human-readable message for that field.
	Error string `json:"error"`
}

// ActionType is a string enum describing what the client should do next.
type ActionType string

const (
	// ActionTypeRedirect tells the client to navigate elsewhere;
	// Value holds the target URL or route.
	ActionTypeRedirect ActionType = "redirect"
)

// Action is an optional instruction for the client attached to an error
// response, e.g. "redirect to /login".
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the error envelope for API responses.
//
// Fields:
//   - Code: machine-friendly code (e.g. "NOT_FOUND", "PERSON_ALREADY_EXISTS")
//   - Message: human-friendly message
//   - Status: HTTP status code to respond with
//   - Override: whether the client UI may show Message verbatim
//   - Errors: field-level validation errors, if any
//   - Action: optional client instruction
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

// Error satisfies the error interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is also an *HTTPError. It matches on type
// only, not on Code or Status, so errors.Is(err, &HTTPError{}) can be
// used as a category check.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of the error with Message replaced. The
// receiver is not mutated, so shared error templates stay intact.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// MakeUpperCaseWithUnderscores converts a phrase into a stable
// machine-readable code: "Bad Request" -> "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
