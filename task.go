package jobharvest

// TaskResult is the outcome of one unit of work, keyed by input identity.
// It distinguishes "succeeded with no data" (Success true, zero Data) from
// "failed" (Success false, Error set).
type TaskResult[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Key     string `json:"key"`
}

// OK constructs a successful result.
func OK[T any](data T, key string) TaskResult[T] {
	return TaskResult[T]{Success: true, Data: data, Key: key}
}

// Fail constructs a failed result.
func Fail[T any](err string, key string) TaskResult[T] {
	return TaskResult[T]{Success: false, Error: err, Key: key}
}

// IsSuccess reports whether the result represents a successful execution.
func (r TaskResult[T]) IsSuccess() bool {
	return r.Success
}

// IsFailure reports whether the result represents a failed execution.
func (r TaskResult[T]) IsFailure() bool {
	return !r.Success
}
