package response

import "fmt"

// AppError 面向响应的错误：业务码加 error.xxx 消息键，原始错误只进日志
type AppError struct {
	StatusCode int
	Key        string
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%d] %s", e.StatusCode, e.Key)
	}
	return fmt.Sprintf("[%d] %s: %v", e.StatusCode, e.Key, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WrapError 把底层错误包装成响应错误
func WrapError(statusCode int, key string, cause error) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Key:        key,
		Cause:      cause,
	}
}
