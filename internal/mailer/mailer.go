// Package mailer sends templated transactional email, such as booking
// confirmations. Templates live in the embedded templates directory and
// define subject, plainBody and htmlBody blocks.
package mailer

// Mailer renders the named template with data and delivers it to recipient.
type Mailer interface {
	Send(recipient, templateFile string, data any) error
}
