package usecase_test

import (
	"context"

	"asperro-contact-backend/internal/domain"
	"asperro-contact-backend/pkg/email"

	"github.com/stretchr/testify/mock"
)

// Mock Collaborators
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) Save(ctx context.Context, s *domain.ArchivedSubmission) error {
	return m.Called(ctx, s).Error(0)
}

// testSettings are the production settings without the honeypot delay
func testSettings() domain.ContactSettings {
	s := domain.DefaultContactSettings()
	s.RecipientAddress = "studio@example.com"
	s.HoneypotDelayMin = 0
	s.HoneypotDelayMax = 0
	return s
}

type MockLister struct {
	mock.Mock
}

func (m *MockLister) ListRecent(ctx context.Context, limit int) ([]domain.ArchivedSubmission, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ArchivedSubmission), args.Error(1)
}
