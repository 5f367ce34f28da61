package utils

const (
	// DefaultFeedLimit applies when the caller does not specify a limit.
	DefaultFeedLimit = 20
	// MaxFeedLimit caps a single feed page.
	MaxFeedLimit = 100
)

// ClampFeedLimit normalizes a requested feed limit into [1, MaxFeedLimit],
// substituting DefaultFeedLimit for zero/negative values.
func ClampFeedLimit(limit int) int {
	if limit <= 0 {
		return DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		return MaxFeedLimit
	}
	return limit
}
