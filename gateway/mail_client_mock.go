package gateway

import (
	"context"
	"sync"
)

type MailMock struct {
	lock sync.Mutex

	SendErr error

	sent []Email
}

func (m *MailMock) Send(_ context.Context, email Email) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.SendErr != nil {
		return m.SendErr
	}

	m.sent = append(m.sent, email)
	return nil
}

func (m *MailMock) Sent() []Email {
	m.lock.Lock()
	defer m.lock.Unlock()

	sent := make([]Email, len(m.sent))
	copy(sent, m.sent)
	return sent
}
