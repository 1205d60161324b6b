// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling,
// categorization, and messaging. User-facing error messages are carefully
// crafted to be informative without revealing implementation details that
// could aid in potential attacks. In particular, the password-reset messages
// never disclose whether an account exists or why a token was rejected.
package constants

// Machine-Readable Error Codes identify error categories in API responses.
const (
	// CodeNotFound indicates that a requested resource could not be found.
	CodeNotFound = "not_found"

	// CodeBadRequest indicates that the request was malformed or invalid.
	CodeBadRequest = "bad_request"

	// CodeUnauthorized indicates that authentication is required but missing or invalid.
	CodeUnauthorized = "unauthorized"

	// CodeForbidden indicates that the requester lacks sufficient permissions.
	CodeForbidden = "forbidden"

	// CodeValidationError indicates that input validation failed.
	CodeValidationError = "validation_error"

	// CodeDuplicateResource indicates an attempt to create a resource that already exists.
	CodeDuplicateResource = "duplicate_resource"

	// CodeInvalidCredentials indicates that authentication credentials are incorrect.
	CodeInvalidCredentials = "invalid_credentials"

	// CodeTokenExpired indicates that an authentication token has expired.
	CodeTokenExpired = "token_expired"

	// CodeTokenInvalid indicates that a token is malformed or invalid.
	CodeTokenInvalid = "token_invalid"

	// CodeInternalError indicates an unexpected internal error.
	CodeInternalError = "internal_error"

	// CodeMethodNotAllowed indicates an unsupported HTTP method.
	CodeMethodNotAllowed = "method_not_allowed"

	// CodeDeliveryFault indicates that an outbound email could not be sent.
	CodeDeliveryFault = "delivery_fault"
)

// User-Facing Error Messages define standardized messages that can be safely
// presented to users.
const (
	// MsgAuthRequired indicates that the user must authenticate to access the resource.
	MsgAuthRequired = "Authentication required"

	// MsgInvalidCredentials indicates that login credentials are incorrect.
	MsgInvalidCredentials = "Invalid email or password"

	// MsgAccessDenied indicates that the user lacks permission for the requested action.
	MsgAccessDenied = "You don't have permission to access this resource"

	// MsgInternalServerError provides a generic server error message.
	MsgInternalServerError = "An internal server error occurred"

	// MsgTokenExpired indicates that the user's authentication token has expired.
	MsgTokenExpired = "Authentication token has expired"

	// MsgMethodNotAllowed indicates an unsupported HTTP method.
	MsgMethodNotAllowed = "Method not allowed"

	// MsgRequestBodyTooLarge indicates that the request payload exceeds size limits.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody indicates that a request body was expected but not provided.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates that the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgResourceNotFound indicates that the requested resource does not exist.
	MsgResourceNotFound = "The requested resource could not be found"

	// MsgResetEmailSent is returned for every forgot-password request that
	// passes input validation, whether or not the address has an account.
	// The identical wording is what makes account enumeration impossible.
	MsgResetEmailSent = "If an account with that email exists, a password reset link has been sent."

	// MsgInvalidResetToken covers every reset-token rejection: bad signature,
	// expired envelope, expired or superseded ledger entry, already-used
	// token. Callers must not be able to tell these apart.
	MsgInvalidResetToken = "Invalid or expired reset token"

	// MsgPasswordResetOK confirms a completed password reset.
	MsgPasswordResetOK = "Password has been reset successfully."

	// MsgEmailDeliveryFailed indicates the reset email could not be handed
	// to the delivery provider.
	MsgEmailDeliveryFailed = "Failed to send password reset email. Please try again later."
)
