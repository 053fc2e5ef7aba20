package middleware

// Context keys used to store request and staff session metadata.
const (
	ContextKeyStaffEmail = "staff_email"
	ContextKeyStaffRole  = "staff_role"
	ContextKeyRequestID  = "request_id"
)
