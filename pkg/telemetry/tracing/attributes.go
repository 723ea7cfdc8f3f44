package tracing

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys used on quarry spans. Database and HTTP keys follow the
// OpenTelemetry semantic conventions; the rest use the "quarry.*" namespace.
const (
	// Query attributes
	AttrQueryName    = "quarry.query.name"
	AttrQueryShape   = "quarry.query.shape"
	AttrInvocationID = "quarry.invocation_id"
	AttrRows         = "quarry.rows"
	AttrCanceled     = "quarry.canceled"

	// Request attributes
	AttrRequestID = "quarry.request_id"

	// Database attributes
	AttrDBSystem = "db.system"

	// HTTP attributes
	AttrHTTPMethod     = "http.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.status_code"
)

// QueryAttributes returns the attributes describing one repository
// invocation.
func QueryAttributes(name, shape, invocationID, dbSystem string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrQueryName, name),
		attribute.String(AttrQueryShape, shape),
		attribute.String(AttrInvocationID, invocationID),
		attribute.String(AttrDBSystem, dbSystem),
	}
}
