package database_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/ligue-leads/internal/entity"
	"github.com/xavierca1/ligue-leads/internal/infra/database"
)

var leadColumns = []string{
	"id", "company", "contact_name", "email", "phone", "status", "score", "consent",
	"nurture_day3_sent", "nurture_day3_sent_at",
	"nurture_day7_sent", "nurture_day7_sent_at",
	"nurture_day14_sent", "nurture_day14_sent_at",
	"nurture_day30_sent", "nurture_day30_sent_at",
	"opened", "opened_at", "clicked", "clicked_at",
	"bounced", "bounced_at", "complained", "complained_at",
	"created_at", "updated_at",
}

func contactRow(mockRows *sqlmock.Rows, id string, createdAt time.Time) *sqlmock.Rows {
	return mockRows.AddRow(
		id, "Clinica Vida", "Ana Souza", "ana@clinicavida.com.br", nil, "NEW", 35, true,
		false, nil, false, nil, false, nil, false, nil,
		false, nil, false, nil, false, nil, false, nil,
		createdAt, createdAt,
		"pricing for 30 seats",
	)
}

func TestLeadRepositoryCreateContact(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	lead, err := entity.NewLead(entity.ChannelContact, "Clinica Vida", "Ana Souza", "ana@clinicavida.com.br", "11988887777", true, entity.Payload{Inquiry: "pricing"})
	assert.NoError(t, err)
	lead.Score = 45

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contact_submissions")).
		WithArgs(
			lead.ID, "Clinica Vida", "Ana Souza", "ana@clinicavida.com.br",
			"11988887777", "NEW", 45, true,
			sqlmock.AnyArg(), sqlmock.AnyArg(),
			"pricing",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := database.NewLeadRepository(db)
	err = repo.Create(context.Background(), lead)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepositoryCreateUnknownChannel(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := database.NewLeadRepository(db)
	err = repo.Create(context.Background(), &entity.Lead{Channel: "NEWSLETTER"})
	assert.Error(t, err)
}

func TestLeadRepositoryFindEligibleExcludesSuppressedAndFlagged(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	threshold := now.AddDate(0, 0, -7)
	created := now.AddDate(0, 0, -8)

	rows := contactRow(sqlmock.NewRows(append(append([]string{}, leadColumns...), "inquiry")), "lead-1", created)

	// The eligibility predicate must carry the idempotency flag, the bounce
	// and complaint guards, and the suppression-list subquery.
	mock.ExpectQuery(`SELECT .+ FROM contact_submissions\s+WHERE created_at <= \$1\s+AND nurture_day7_sent = FALSE\s+AND bounced = FALSE\s+AND complained = FALSE\s+AND status NOT IN \('REJECTED', 'UNSUBSCRIBED'\)\s+AND email NOT IN \(SELECT email FROM suppressions\) ORDER BY created_at`).
		WithArgs(threshold).
		WillReturnRows(rows)

	repo := database.NewLeadRepository(db)
	leads, err := repo.FindEligible(context.Background(), entity.ChannelContact, entity.CheckpointDay7, now, 0)

	assert.NoError(t, err)
	assert.Len(t, leads, 1)
	assert.Equal(t, "lead-1", leads[0].ID)
	assert.Equal(t, entity.ChannelContact, leads[0].Channel)
	assert.Equal(t, "pricing for 30 seats", leads[0].Payload.Inquiry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepositoryFindEligibleAppliesStalenessCutoff(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	threshold := now.AddDate(0, 0, -3)
	cutoff := threshold.AddDate(0, 0, -60)

	mock.ExpectQuery(`AND created_at > \$2 ORDER BY created_at`).
		WithArgs(threshold, cutoff).
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, leadColumns...), "inquiry")))

	repo := database.NewLeadRepository(db)
	leads, err := repo.FindEligible(context.Background(), entity.ChannelContact, entity.CheckpointDay3, now, 60)

	assert.NoError(t, err)
	assert.Empty(t, leads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepositoryMarkCheckpointSentTestAndSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	pattern := `UPDATE demo_requests\s+SET nurture_day14_sent = TRUE, nurture_day14_sent_at = \$1, updated_at = NOW\(\)\s+WHERE id = \$2 AND nurture_day14_sent = FALSE`

	repo := database.NewLeadRepository(db)

	// First caller flips the flag.
	mock.ExpectExec(pattern).WithArgs(at, "lead-1").WillReturnResult(sqlmock.NewResult(0, 1))
	flipped, err := repo.MarkCheckpointSent(context.Background(), entity.ChannelDemo, "lead-1", entity.CheckpointDay14, at)
	assert.NoError(t, err)
	assert.True(t, flipped)

	// A concurrent caller finds it already set and loses.
	mock.ExpectExec(pattern).WithArgs(at, "lead-1").WillReturnResult(sqlmock.NewResult(0, 0))
	flipped, err = repo.MarkCheckpointSent(context.Background(), entity.ChannelDemo, "lead-1", entity.CheckpointDay14, at)
	assert.NoError(t, err)
	assert.False(t, flipped)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE event_registrations SET status = $1")).
		WithArgs("APPROVED", "missing-id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := database.NewLeadRepository(db)
	err = repo.UpdateStatus(context.Background(), entity.ChannelEvent, "missing-id", "APPROVED")

	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLeadRepositoryRecordDownloadBumpsCounter(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	at := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE library_downloads\s+SET downloaded_at = \$1, download_count = download_count \+ 1`).
		WithArgs(at, "lead-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := database.NewLeadRepository(db)
	err = repo.RecordDownload(context.Background(), "lead-1", at)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeadRepositoryUnifiedListFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "channel", "company", "contact_name", "email", "phone", "status", "score", "created_at"}).
		AddRow("lead-1", "DEMO", "Hospital Central", "Joao Lima", "joao@hospitalcentral.com.br", nil, "NEW", 55, created)

	mock.ExpectQuery(`FROM unified_leads\s+WHERE 1=1 AND channel = \$1 AND score >= \$2 ORDER BY score DESC, created_at DESC LIMIT \$3`).
		WithArgs("DEMO", 50, 50).
		WillReturnRows(rows)

	repo := database.NewLeadRepository(db)
	leads, err := repo.UnifiedList(context.Background(), entity.UnifiedFilter{Channel: entity.ChannelDemo, MinScore: 50})

	assert.NoError(t, err)
	assert.Len(t, leads, 1)
	assert.Equal(t, entity.ChannelDemo, leads[0].Channel)
	assert.Equal(t, 55, leads[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}
