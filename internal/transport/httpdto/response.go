package httpdto

// Response is the envelope every endpoint answers with. A success carries
// Data; a failure carries human-readable Error text plus a stable machine
// Code (EMAIL_TAKEN, INVALID_CREDENTIALS, NOT_FOUND, ...) that clients
// branch on.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

func NewSuccessResponse[T any](data T) Response[T] {
	return Response[T]{
		Success: true,
		Data:    data,
	}
}

// NewErrorResponse builds a failure envelope. The code is part of the API
// contract and must stay stable across releases.
func NewErrorResponse(err string, code string) Response[any] {
	return Response[any]{
		Success: false,
		Error:   err,
		Code:    code,
	}
}
