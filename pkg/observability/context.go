package observability

import (
	"context"

	"github.com/google/uuid"
)

// Log attribute keys for request-scoped identifiers.
const (
	CorrelationIDKey = "correlation_id"
	UserIDKey        = "user_id"
	SourceKey        = "source"
)

// Request sources.
const (
	SourceCLI = "cli"
	SourceMCP = "mcp"
)

// RequestInfo identifies the CLI invocation or MCP tool call that log
// records and domain events belong to.
type RequestInfo struct {
	CorrelationID string
	UserID        string
	Source        string
}

type requestInfoKey struct{}

// WithRequestInfo stores info on ctx. An empty CorrelationID is generated.
func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	if info.CorrelationID == "" {
		info.CorrelationID = uuid.NewString()
	}
	return context.WithValue(ctx, requestInfoKey{}, info)
}

// RequestInfoFromContext returns the stored info, or the zero value.
func RequestInfoFromContext(ctx context.Context) RequestInfo {
	if ctx == nil {
		return RequestInfo{}
	}
	info, _ := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info
}

// WithCorrelationID replaces the correlation ID, keeping the other fields.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	info := RequestInfoFromContext(ctx)
	info.CorrelationID = id
	return WithRequestInfo(ctx, info)
}

func CorrelationIDFromContext(ctx context.Context) string {
	return RequestInfoFromContext(ctx).CorrelationID
}

// WithUserID replaces the user ID, keeping the other fields.
func WithUserID(ctx context.Context, userID string) context.Context {
	info := RequestInfoFromContext(ctx)
	info.UserID = userID
	return WithRequestInfo(ctx, info)
}
