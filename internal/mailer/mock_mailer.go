package mailer

import (
	"sync"
)

type Email struct {
	Recipient    string
	TemplateFile string
	Subject      string
	Data         any
}

// MockMailer renders every message like SMTPMailer but keeps it in memory
// instead of delivering it.
type MockMailer struct {
	mu      sync.Mutex
	emails  []Email
	sendErr error
}

func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(recipient, templateFile string, data any) error {
	subject, _, _, err := render(templateFile, data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return m.sendErr
	}

	m.emails = append(m.emails, Email{
		Recipient:    recipient,
		TemplateFile: templateFile,
		Subject:      subject,
		Data:         data,
	})

	return nil
}

// FailWith makes subsequent sends return err. A nil err restores delivery.
func (m *MockMailer) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sendErr = err
}

func (m *MockMailer) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()

	emails := make([]Email, len(m.emails))
	copy(emails, m.emails)

	return emails
}

func (m *MockMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.emails = nil
	m.sendErr = nil
}
