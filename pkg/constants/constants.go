// Package constants defines system-wide constants for the supplier risk service.
package constants

import "time"

// ================================================================================
// Service Identity
// ================================================================================

const (
	// ServiceName is used for tracing resources, metric namespaces and the gRPC health service.
	ServiceName = "supplier-risk-service"

	// MetricsNamespace prefixes every Prometheus metric exported by the service.
	MetricsNamespace = "supplier_risk"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is the type used for values stored in request contexts
type ContextKey string

const (
	// ContextKeyRequestID holds the request correlation id
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeySupplierID holds the supplier id a request operates on
	ContextKeySupplierID ContextKey = "supplier_id"

	// ContextKeyTraceID holds the trace id of the active span
	ContextKeyTraceID ContextKey = "trace_id"
)

// ================================================================================
// HTTP Headers
// ================================================================================

const (
	HeaderRequestID   = "X-Request-ID"
	HeaderContentType = "Content-Type"
)

// ================================================================================
// Cache Keys and Defaults
// ================================================================================

const (
	// SupplierCacheKeyPrefix namespaces supplier profiles in Redis
	SupplierCacheKeyPrefix = "supplier:profile:"

	// DefaultSupplierCacheTTL applies when the configuration leaves the TTL unset
	DefaultSupplierCacheTTL = 10 * time.Minute

	// DefaultPoliticalRiskTTL applies when the configuration leaves the TTL unset
	DefaultPoliticalRiskTTL = 6 * time.Hour

	// DefaultPoliticalLookupTimeout bounds a single political risk lookup
	DefaultPoliticalLookupTimeout = 500 * time.Millisecond

	// StoreLookupTimeout bounds a shared supplier store lookup
	StoreLookupTimeout = 3 * time.Second
)

// ================================================================================
// Pagination
// ================================================================================

const (
	DefaultAssessmentPageSize = 20
	MaxAssessmentPageSize     = 200
)

// ================================================================================
// Messaging
// ================================================================================

const (
	// EventTypeRiskAssessed is the event type published after every supplier assessment
	EventTypeRiskAssessed = "supplier.risk.assessed"

	// EventTypeSupplierUpdated is the event type consumed to refresh supplier records
	EventTypeSupplierUpdated = "supplier.profile.updated"
)

//Personal.AI order the ending
