package model

// ErrorResponse defines error response structure.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// SuccessResponse defines success response structure.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ListResponse wraps a list of items.
type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// NewListResponse creates a list response, never serializing a null list.
func NewListResponse[T any](data []T) *ListResponse[T] {
	if data == nil {
		data = []T{}
	}
	return &ListResponse[T]{Data: data, Count: len(data)}
}
