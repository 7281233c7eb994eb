package logging

import (
	"context"
)

type contextKey string

const (
	TraceIDKey     contextKey = "trace_id"
	RequestIDKey   contextKey = "request_id"
	SessionIDKey   contextKey = "session_id"
	ReportKey      contextKey = "report"
	ServiceNameKey contextKey = "service_name"
)

// fieldOrder fixes the order context fields appear in log lines.
var fieldOrder = []contextKey{TraceIDKey, RequestIDKey, SessionIDKey, ReportKey, ServiceNameKey}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

func WithReport(ctx context.Context, reportName string) context.Context {
	return context.WithValue(ctx, ReportKey, reportName)
}

func WithServiceName(ctx context.Context, serviceName string) context.Context {
	return context.WithValue(ctx, ServiceNameKey, serviceName)
}

func get(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func GetTraceID(ctx context.Context) string     { return get(ctx, TraceIDKey) }
func GetRequestID(ctx context.Context) string   { return get(ctx, RequestIDKey) }
func GetSessionID(ctx context.Context) string   { return get(ctx, SessionIDKey) }
func GetReport(ctx context.Context) string      { return get(ctx, ReportKey) }
func GetServiceName(ctx context.Context) string { return get(ctx, ServiceNameKey) }

func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, len(fieldOrder)*2)

	for _, key := range fieldOrder {
		if v := get(ctx, key); v != "" {
			fields = append(fields, string(key), v)
		}
	}

	return fields
}
