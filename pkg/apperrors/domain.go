package apperrors

import (
	"net/http"
)

// =========================================================================
// Factories
// =========================================================================

// ErrValidation is a domain-scoped ValidationError.
func ErrValidation(domain, message string) *AppError {
	return New(CodeValidationFailed, domain, message, http.StatusBadRequest)
}

// ErrNotFound - 404 for a referenced entity that does not exist
func ErrNotFound(domain, message string) *AppError {
	return New(CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrConflict - 409 for uniqueness violations
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidStatus - 400 for a disallowed state transition
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeValidationFailed, domain, message, http.StatusBadRequest).
		WithDetails(map[string]string{"status": string(CodeInvalidStatus)})
}

// =========================================================================
// Predefined errors
// =========================================================================

// --- Auth ---

// ErrInvalidCredentials is shared by "unknown email" and "wrong password".
var ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)

var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)

var ErrTooManyRequests = New(CodeTooManyRequests, "auth", "Too many attempts, try again later", http.StatusTooManyRequests)

// --- Users ---

var ErrUserNotFound = ErrNotFound("user", "User not found")

var ErrInvalidUserRole = ErrValidation("user", "Role must be one of: employer, jobseeker")

// --- Jobs ---

var ErrJobNotFound = ErrNotFound("job", "Job not found")

// --- Applications ---

var ErrApplicationNotFound = ErrNotFound("application", "Application not found")

var ErrAlreadyApplied = New(CodeConflict, "application", "Already applied to this job", http.StatusConflict)

var ErrInvalidApplicationStatus = ErrValidation("application", "Status must be one of: pending, accepted, rejected, interview")

// --- Saved jobs ---

var ErrSavedJobNotFound = ErrNotFound("saved_job", "Job not saved")

var ErrAlreadySaved = New(CodeConflict, "saved_job", "Job already saved", http.StatusConflict)
