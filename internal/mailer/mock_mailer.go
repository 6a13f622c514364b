package mailer

import "sync"

// Email captures the arguments of a single Send call.
type Email struct {
	Recipient    string
	TemplateFile string
	Data         any
}

// MockMailer records sends instead of dialing SMTP. Safe for concurrent use.
type MockMailer struct {
	mu   sync.Mutex
	sent []Email
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(recipient, templateFile string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sent = append(m.sent, Email{Recipient: recipient, TemplateFile: templateFile, Data: data})
	return nil
}

// GetSentEmails returns a copy of every recorded email in send order.
func (m *MockMailer) GetSentEmails() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Email, len(m.sent))
	copy(out, m.sent)
	return out
}
