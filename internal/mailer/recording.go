package mailer

import (
	"log/slog"
	"sync"
)

// Message is an e-mail rendered by RecordingMailer.
type Message struct {
	Recipient    string
	TemplateFile string
	Subject      string
	Data         any
}

// RecordingMailer renders messages and keeps them in memory instead of delivering them. It
// stands in for SMTP when no credentials are configured.
type RecordingMailer struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	sender   string
	messages []Message
}

func NewRecordingMailer(sender string, logger *slog.Logger) *RecordingMailer {
	return &RecordingMailer{
		logger: logger,
		sender: sender,
	}
}

func (m *RecordingMailer) Send(recipient, templateFile string, data any) error {
	msg, err := render(m.sender, recipient, templateFile, data)
	if err != nil {
		return err
	}

	var subject string
	if h := msg.GetHeader("Subject"); len(h) > 0 {
		subject = h[0]
	}

	m.mu.Lock()
	m.messages = append(m.messages, Message{
		Recipient:    recipient,
		TemplateFile: templateFile,
		Subject:      subject,
		Data:         data,
	})
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Debug("e-mail recorded", "recipient", recipient, "subject", subject)
	}

	return nil
}

// Messages returns a copy of the recorded messages.
func (m *RecordingMailer) Messages() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := make([]Message, len(m.messages))
	copy(messages, m.messages)
	return messages
}

func (m *RecordingMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = nil
}
