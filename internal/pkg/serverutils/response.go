package serverutils

import "ai-chat-be/internal/pkg/apperror"

type BaseResponse[T any] struct {
	Success bool                  `json:"success"`
	Code    int                   `json:"code"`
	Message string                `json:"message"`
	Detail  string                `json:"detail,omitempty"`
	Data    T                     `json:"data,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) *BaseResponse[T] {
	return &BaseResponse[T]{
		Success: true,
		Code:    200,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) *BaseResponse[any] {
	return &BaseResponse[any]{
		Success: false,
		Code:    code,
		Message: message,
	}
}
