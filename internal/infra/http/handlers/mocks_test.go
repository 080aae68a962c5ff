package handlers_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/infra/token"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

// MockNurtureRunner
type MockNurtureRunner struct {
	mock.Mock
}

func (m *MockNurtureRunner) Execute(ctx context.Context, checkpoints []entity.Checkpoint) (usecase.NurtureSummary, error) {
	args := m.Called(ctx, checkpoints)
	return args.Get(0).(usecase.NurtureSummary), args.Error(1)
}

// MockQueueProducer
type MockQueueProducer struct {
	mock.Mock
}

func (m *MockQueueProducer) PublishEmailEvent(ctx context.Context, payload queue.EmailEventPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockTokenVerifier
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(tokenString string) (*token.DownloadClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*token.DownloadClaims), args.Error(1)
}

// MockAssetFinder
type MockAssetFinder struct {
	mock.Mock
}

func (m *MockAssetFinder) FindBySlug(ctx context.Context, slug string) (*entity.LibraryAsset, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LibraryAsset), args.Error(1)
}

// MockDownloadRecorder
type MockDownloadRecorder struct {
	mock.Mock
}

func (m *MockDownloadRecorder) RecordDownload(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// Mocks for wiring a real CreateLeadUseCase behind the submission handler.

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

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, channel entity.Channel, id string, status string) error {
	args := m.Called(ctx, channel, id, status)
	return args.Error(0)
}

func (m *MockLeadRepository) RecordDownload(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockLeadRepository) UnifiedList(ctx context.Context, filter entity.UnifiedFilter) ([]entity.UnifiedLead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.UnifiedLead), args.Error(1)
}

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

func (m *MockSuppressionRepository) List(ctx context.Context, limit, offset int) ([]entity.Suppression, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Suppression), args.Error(1)
}

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

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error) {
	args := m.Called(ctx, to, subject, htmlBody, textBody)
	return args.String(0), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(channel entity.Channel, trigger string, vars mail.TemplateVars) (mail.Message, error) {
	args := m.Called(channel, trigger, vars)
	return args.Get(0).(mail.Message), args.Error(1)
}

type MockTokenGenerator struct {
	mock.Mock
}

func (m *MockTokenGenerator) Generate(leadID, assetSlug string) (string, error) {
	args := m.Called(leadID, assetSlug)
	return args.String(0), args.Error(1)
}
