package errors

// 常用错误构造函数

func BadRequest(format string, args ...any) *Error {
	return New(400, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return New(404, format, args...)
}

func Internal(format string, args ...any) *Error {
	return New(500, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return New(409, format, args...)
}

func TooManyRequests(format string, args ...any) *Error {
	return New(429, format, args...)
}
