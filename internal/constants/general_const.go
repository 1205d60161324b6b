// Package constants provides shared constant values used throughout the application.
//
// The general_const.go file defines general-purpose constants related to routing,
// request parameters, headers, and context keys. These constants ensure consistent
// API patterns and URL structure throughout the application.
package constants

// Base Routes define the root URL paths for different parts of the API.
const (
	// APIBasePath is the root path prefix for all API endpoints.
	APIBasePath = "/api"

	// HealthPath is the endpoint for health checks and system status.
	HealthPath = "/health"

	// VersionPath is the endpoint reporting the build version.
	VersionPath = "/version"
)

// URL Parameters define path parameter names used in route definitions.
const (
	// ParamTodoID is the URL parameter for todo item identifiers.
	ParamTodoID = "todoID"
)

// Context Keys identify values stored on the request context.
const (
	// UserIDContextKey is the context key for the authenticated user ID.
	UserIDContextKey = "user_id"

	// UsernameContextKey is the context key for the authenticated username.
	UsernameContextKey = "username"

	// EmailContextKey is the context key for the authenticated user's email.
	EmailContextKey = "email"

	// RequestIDContextKey is the context key for the unique request ID.
	RequestIDContextKey = "request_id"
)

// HTTP Headers used by the API.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderXRequestID    = "X-Request-ID"

	HeaderXContentTypeOptions   = "X-Content-Type-Options"
	HeaderXFrameOptions         = "X-Frame-Options"
	HeaderReferrerPolicy        = "Referrer-Policy"
	HeaderContentSecurityPolicy = "Content-Security-Policy"
)

// Security Header Values applied by the security middleware.
const (
	ContentTypeOptionsNoSniff  = "nosniff"
	FrameOptionsDeny           = "DENY"
	ReferrerPolicyStrictOrigin = "strict-origin-when-cross-origin"
	CSPDefaultSrc              = "default-src 'self'"
)

// Content Types
const (
	ContentTypeJSON = "application/json"
)

// Token Types distinguish the purpose of signed tokens. A token issued for
// one purpose is never accepted by a flow expecting another.
const (
	// TokenTypeAccess marks a login access token.
	TokenTypeAccess = "access"

	// TokenTypePasswordReset marks a signed password-reset envelope.
	TokenTypePasswordReset = "password-reset"
)

// Authentication constants.
const (
	// BearerTokenPrefix is the prefix of Authorization header values.
	BearerTokenPrefix = "Bearer "
)

// Response status flags used by the standardized response envelope.
const (
	ResponseSuccess = true
	ResponseFailure = false
)
