package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields are attached to every log record written with a context that carries them.
// The dispatcher sets the delivery fields once and everything downstream
// (dispatcher, recorder, stores) logs with them without passing them around.
type LogFields struct {
	DeliveryID    *string // Provider-issued delivery id (X-GitHub-Delivery)
	Provider      *string // "github"
	EventType     *string // Raw event type header, e.g. "pull_request"
	WorkPackageID *int64  // Work package currently being journaled
	UserID        *int64  // Acting internal user
	Component     string  // e.g. "openproject.webhook.dispatcher"
}

// WithLogFields enriches ctx. Newer non-nil/non-empty values win.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields returns the fields carried by ctx, or the zero value.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.DeliveryID != nil {
		result.DeliveryID = next.DeliveryID
	}
	if next.Provider != nil {
		result.Provider = next.Provider
	}
	if next.EventType != nil {
		result.EventType = next.EventType
	}
	if next.WorkPackageID != nil {
		result.WorkPackageID = next.WorkPackageID
	}
	if next.UserID != nil {
		result.UserID = next.UserID
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr returns a pointer to v, for inline LogFields literals.
func Ptr[T any](v T) *T {
	return &v
}

// Truncate cuts s to maxLen bytes and appends "..." when it was longer.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
