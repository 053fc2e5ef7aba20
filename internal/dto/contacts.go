package dto

// ContactSubmission is the raw, unvalidated payload of the contact form.
// FullPhone carries a country-code-qualified number assembled by the client
// and takes precedence over PhoneNumber.
type ContactSubmission struct {
	FirstName     string `json:"first_name" form:"first_name"`
	LastName      string `json:"last_name" form:"last_name"`
	Service       string `json:"service" form:"service"`
	OtherService  string `json:"other_service" form:"other_service"`
	Email         string `json:"email" form:"email"`
	PhoneNumber   string `json:"phone_number" form:"phone_number"`
	FullPhone     string `json:"full_phone" form:"full_phone"`
	Description   string `json:"description" form:"description"`
	ServingStatus string `json:"serving_status" form:"serving_status"`
}

// ContactFilter narrows contact listings. Empty fields match everything.
type ContactFilter struct {
	Status  string
	Service string
}

// UpdateStatusRequest is the body of a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" form:"status"`
}
