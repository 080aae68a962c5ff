package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, channel entity.Channel, id string) (*entity.Lead, error) {
	args := m.Called(ctx, channel, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindEligible(ctx context.Context, channel entity.Channel, checkpoint entity.Checkpoint, now time.Time, maxLagDays int) ([]*entity.Lead, error) {
	args := m.Called(ctx, channel, checkpoint, now, maxLagDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) MarkCheckpointSent(ctx context.Context, channel entity.Channel, id string, checkpoint entity.Checkpoint, at time.Time) (bool, error) {
	args := m.Called(ctx, channel, id, checkpoint, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeadRepository) UpdateEngagement(ctx context.Context, channel entity.Channel, id string, engagement entity.Engagement) error {
	args := m.Called(ctx, channel, id, engagement)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateScore(ctx context.Context, channel entity.Channel, id string, score int) error {
	args := m.Called(ctx, channel, id, score)
	return args.Error(0)
}

func (m *MockLeadRepository) RecordDownload(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockSendRecordRepository
type MockSendRecordRepository struct {
	mock.Mock
}

func (m *MockSendRecordRepository) Create(ctx context.Context, record *entity.EmailSendRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSendRecordRepository) MarkDispatched(ctx context.Context, id, providerMessageID string) error {
	args := m.Called(ctx, id, providerMessageID)
	return args.Error(0)
}

func (m *MockSendRecordRepository) MarkFailed(ctx context.Context, id, errMsg string) error {
	args := m.Called(ctx, id, errMsg)
	return args.Error(0)
}

func (m *MockSendRecordRepository) FindByProviderMessageID(ctx context.Context, providerMessageID string) (*entity.EmailSendRecord, error) {
	args := m.Called(ctx, providerMessageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EmailSendRecord), args.Error(1)
}

func (m *MockSendRecordRepository) UpdateStatus(ctx context.Context, id string, status entity.SendStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockSuppressionRepository
type MockSuppressionRepository struct {
	mock.Mock
}

func (m *MockSuppressionRepository) Suppress(ctx context.Context, s *entity.Suppression) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSuppressionRepository) IsSuppressed(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockAssetRepository
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) FindBySlug(ctx context.Context, slug string) (*entity.LibraryAsset, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LibraryAsset), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error) {
	args := m.Called(ctx, to, subject, htmlBody, textBody)
	return args.String(0), args.Error(1)
}

// MockRenderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(channel entity.Channel, trigger string, vars mail.TemplateVars) (mail.Message, error) {
	args := m.Called(channel, trigger, vars)
	return args.Get(0).(mail.Message), args.Error(1)
}

// MockTokenGenerator
type MockTokenGenerator struct {
	mock.Mock
}

func (m *MockTokenGenerator) Generate(leadID, assetSlug string) (string, error) {
	args := m.Called(leadID, assetSlug)
	return args.String(0), args.Error(1)
}
