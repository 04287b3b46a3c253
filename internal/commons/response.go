// Package commons holds the JSON envelope every HTTP endpoint responds with.
package commons

// Response is the uniform wire envelope. Data is a pointer so a failed
// request omits the field entirely instead of carrying a zero value.
type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

// ErrorResponse builds a failure envelope; details are caller-visible and
// must not contain internal error text for store failures.
func ErrorResponse[T any](message string, details ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  details,
	}
}
