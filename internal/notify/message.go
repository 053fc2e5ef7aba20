package notify

import (
	"fmt"
	"strings"

	"github.com/octobees/contactdesk/internal/entity"
)

// SubjectNewContact is used for every submission alert.
const SubjectNewContact = "New Contact Form Submission"

// Message is a plain-text email ready for delivery.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	// Ref ties log lines back to the record that triggered the message.
	Ref string `json:"ref,omitempty"`
}

// ComposeContactSummary builds the admin alert for a freshly stored contact.
func ComposeContactSummary(contact entity.Contact, cfg Config) Message {
	phone := "Not provided"
	if contact.PhoneNumber != nil && *contact.PhoneNumber != "" {
		phone = *contact.PhoneNumber
	}
	service := contact.Service.Label()
	if contact.Service == entity.ServiceOther && contact.OtherService != nil && *contact.OtherService != "" {
		service = fmt.Sprintf("%s (%s)", service, *contact.OtherService)
	}

	var body strings.Builder
	body.WriteString("New contact form submission:\n\n")
	fmt.Fprintf(&body, "Name: %s\n", contact.FullName())
	fmt.Fprintf(&body, "Service: %s\n", service)
	fmt.Fprintf(&body, "Email: %s\n", contact.Email)
	fmt.Fprintf(&body, "Phone: %s\n", phone)
	fmt.Fprintf(&body, "Description:\n%s\n", contact.Description)

	return Message{
		From:    cfg.FromEmail,
		To:      cfg.AdminEmail,
		Subject: SubjectNewContact,
		Body:    body.String(),
		Ref:     contact.ID.String(),
	}
}
