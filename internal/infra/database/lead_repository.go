package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// LeadRepository persists leads across the five channel tables. The tables
// share the common column set below and differ only in their payload
// columns; channelTables/payload* keep that mapping in one place.
type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

var channelTables = map[entity.Channel]string{
	entity.ChannelLibrary:     "library_downloads",
	entity.ChannelContact:     "contact_submissions",
	entity.ChannelDemo:        "demo_requests",
	entity.ChannelEvent:       "event_registrations",
	entity.ChannelPartnership: "partnership_proposals",
}

var commonColumns = []string{
	"id", "company", "contact_name", "email", "phone", "status", "score", "consent",
	"nurture_day3_sent", "nurture_day3_sent_at",
	"nurture_day7_sent", "nurture_day7_sent_at",
	"nurture_day14_sent", "nurture_day14_sent_at",
	"nurture_day30_sent", "nurture_day30_sent_at",
	"opened", "opened_at", "clicked", "clicked_at",
	"bounced", "bounced_at", "complained", "complained_at",
	"created_at", "updated_at",
}

func payloadColumns(channel entity.Channel) []string {
	switch channel {
	case entity.ChannelLibrary:
		return []string{"asset_slug", "asset_title", "download_count"}
	case entity.ChannelContact:
		return []string{"inquiry"}
	case entity.ChannelDemo:
		return []string{"product_interest", "preferred_date"}
	case entity.ChannelEvent:
		return []string{"event_name", "attendee_count"}
	case entity.ChannelPartnership:
		return []string{"proposal"}
	}
	return nil
}

func payloadValues(lead *entity.Lead) []interface{} {
	p := lead.Payload
	switch lead.Channel {
	case entity.ChannelLibrary:
		return []interface{}{p.AssetSlug, p.AssetTitle, p.DownloadCount}
	case entity.ChannelContact:
		return []interface{}{p.Inquiry}
	case entity.ChannelDemo:
		return []interface{}{p.ProductInterest, p.PreferredDate}
	case entity.ChannelEvent:
		return []interface{}{p.EventName, p.AttendeeCount}
	case entity.ChannelPartnership:
		return []interface{}{p.Proposal}
	}
	return nil
}

func payloadDest(channel entity.Channel, lead *entity.Lead) []interface{} {
	p := &lead.Payload
	switch channel {
	case entity.ChannelLibrary:
		return []interface{}{&p.AssetSlug, &p.AssetTitle, &p.DownloadCount}
	case entity.ChannelContact:
		return []interface{}{&p.Inquiry}
	case entity.ChannelDemo:
		return []interface{}{&p.ProductInterest, &p.PreferredDate}
	case entity.ChannelEvent:
		return []interface{}{&p.EventName, &p.AttendeeCount}
	case entity.ChannelPartnership:
		return []interface{}{&p.Proposal}
	}
	return nil
}

func selectColumns(channel entity.Channel) string {
	return strings.Join(append(append([]string{}, commonColumns...), payloadColumns(channel)...), ", ")
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	table, ok := channelTables[lead.Channel]
	if !ok {
		return fmt.Errorf("no table for channel %q", lead.Channel)
	}

	cols := append([]string{"id", "company", "contact_name", "email", "phone", "status", "score", "consent", "created_at", "updated_at"}, payloadColumns(lead.Channel)...)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	args := []interface{}{
		lead.ID, lead.Company, lead.ContactName, lead.Email,
		nullString(lead.Phone), lead.Status, lead.Score, lead.Consent,
		lead.CreatedAt, lead.UpdatedAt,
	}
	args = append(args, payloadValues(lead)...)

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
	)

	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *LeadRepository) FindByID(ctx context.Context, channel entity.Channel, id string) (*entity.Lead, error) {
	table, ok := channelTables[channel]
	if !ok {
		return nil, fmt.Errorf("no table for channel %q", channel)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", selectColumns(channel), table)
	row := r.DB.QueryRowContext(ctx, query, id)
	return scanLead(row, channel)
}

// FindEligible selects leads due for the given checkpoint: old enough,
// flag still unset, not suppressed, not in a terminal status. maxLagDays
// optionally skips leads more than that many days past the checkpoint
// (0 disables the cutoff).
func (r *LeadRepository) FindEligible(ctx context.Context, channel entity.Channel, checkpoint entity.Checkpoint, now time.Time, maxLagDays int) ([]*entity.Lead, error) {
	table, ok := channelTables[channel]
	if !ok {
		return nil, fmt.Errorf("no table for channel %q", channel)
	}

	flag := fmt.Sprintf("nurture_day%d_sent", checkpoint.Days())
	threshold := now.AddDate(0, 0, -checkpoint.Days())

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE created_at <= $1
		  AND %s = FALSE
		  AND bounced = FALSE
		  AND complained = FALSE
		  AND status NOT IN ('REJECTED', 'UNSUBSCRIBED')
		  AND email NOT IN (SELECT email FROM suppressions)`,
		selectColumns(channel), table, flag,
	)

	args := []interface{}{threshold}
	if maxLagDays > 0 {
		query += " AND created_at > $2"
		args = append(args, threshold.AddDate(0, 0, -maxLagDays))
	}
	query += " ORDER BY created_at"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows, channel)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// MarkCheckpointSent is the test-and-set behind the idempotency guarantee:
// the flag only flips when it is still false, so an overlapping run loses
// the race and sees false back.
func (r *LeadRepository) MarkCheckpointSent(ctx context.Context, channel entity.Channel, id string, checkpoint entity.Checkpoint, at time.Time) (bool, error) {
	table, ok := channelTables[channel]
	if !ok {
		return false, fmt.Errorf("no table for channel %q", channel)
	}

	flag := fmt.Sprintf("nurture_day%d_sent", checkpoint.Days())
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = TRUE, %s_at = $1, updated_at = NOW()
		WHERE id = $2 AND %s = FALSE`,
		table, flag, flag, flag,
	)

	result, err := r.DB.ExecContext(ctx, query, at, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *LeadRepository) UpdateEngagement(ctx context.Context, channel entity.Channel, id string, e entity.Engagement) error {
	table, ok := channelTables[channel]
	if !ok {
		return fmt.Errorf("no table for channel %q", channel)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET opened = $1, opened_at = $2,
		    clicked = $3, clicked_at = $4,
		    bounced = $5, bounced_at = $6,
		    complained = $7, complained_at = $8,
		    updated_at = NOW()
		WHERE id = $9`,
		table,
	)

	_, err := r.DB.ExecContext(ctx, query,
		e.Opened, nullTime(e.OpenedAt),
		e.Clicked, nullTime(e.ClickedAt),
		e.Bounced, nullTime(e.BouncedAt),
		e.Complained, nullTime(e.ComplainedAt),
		id,
	)
	return err
}

func (r *LeadRepository) UpdateScore(ctx context.Context, channel entity.Channel, id string, score int) error {
	table, ok := channelTables[channel]
	if !ok {
		return fmt.Errorf("no table for channel %q", channel)
	}

	query := fmt.Sprintf("UPDATE %s SET score = $1, updated_at = NOW() WHERE id = $2", table)
	_, err := r.DB.ExecContext(ctx, query, score, id)
	return err
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, channel entity.Channel, id string, status string) error {
	table, ok := channelTables[channel]
	if !ok {
		return fmt.Errorf("no table for channel %q", channel)
	}

	query := fmt.Sprintf("UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2", table)
	result, err := r.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RecordDownload bumps the counter on a library lead when its signed
// download link is redeemed.
func (r *LeadRepository) RecordDownload(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE library_downloads
		SET downloaded_at = $1, download_count = download_count + 1, updated_at = NOW()
		WHERE id = $2`
	_, err := r.DB.ExecContext(ctx, query, at, id)
	return err
}

// UnifiedList reads the unified_leads view, one normalized row per lead
// across every channel table.
func (r *LeadRepository) UnifiedList(ctx context.Context, filter entity.UnifiedFilter) ([]entity.UnifiedLead, error) {
	query := `
		SELECT id, channel, company, contact_name, email, phone, status, score, created_at
		FROM unified_leads
		WHERE 1=1`

	var args []interface{}
	if filter.Channel != "" {
		args = append(args, string(filter.Channel))
		query += fmt.Sprintf(" AND channel = $%d", len(args))
	}
	if filter.MinScore > 0 {
		args = append(args, filter.MinScore)
		query += fmt.Sprintf(" AND score >= $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (company ILIKE $%d OR contact_name ILIKE $%d OR email ILIKE $%d)", len(args), len(args), len(args))
	}

	query += " ORDER BY score DESC, created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []entity.UnifiedLead
	for rows.Next() {
		var l entity.UnifiedLead
		var phone sql.NullString
		if err := rows.Scan(&l.ID, &l.Channel, &l.Company, &l.ContactName, &l.Email, &phone, &l.Status, &l.Score, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.Phone = phone.String
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner, channel entity.Channel) (*entity.Lead, error) {
	lead := &entity.Lead{Channel: channel}

	var phone sql.NullString
	var day3At, day7At, day14At, day30At sql.NullTime
	var openedAt, clickedAt, bouncedAt, complainedAt sql.NullTime

	dest := []interface{}{
		&lead.ID, &lead.Company, &lead.ContactName, &lead.Email, &phone,
		&lead.Status, &lead.Score, &lead.Consent,
		&lead.Nurture.Day3Sent, &day3At,
		&lead.Nurture.Day7Sent, &day7At,
		&lead.Nurture.Day14Sent, &day14At,
		&lead.Nurture.Day30Sent, &day30At,
		&lead.Engagement.Opened, &openedAt,
		&lead.Engagement.Clicked, &clickedAt,
		&lead.Engagement.Bounced, &bouncedAt,
		&lead.Engagement.Complained, &complainedAt,
		&lead.CreatedAt, &lead.UpdatedAt,
	}
	dest = append(dest, payloadDest(channel, lead)...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	lead.Phone = phone.String
	lead.Nurture.Day3SentAt = timePtr(day3At)
	lead.Nurture.Day7SentAt = timePtr(day7At)
	lead.Nurture.Day14SentAt = timePtr(day14At)
	lead.Nurture.Day30SentAt = timePtr(day30At)
	lead.Engagement.OpenedAt = timePtr(openedAt)
	lead.Engagement.ClickedAt = timePtr(clickedAt)
	lead.Engagement.BouncedAt = timePtr(bouncedAt)
	lead.Engagement.ComplainedAt = timePtr(complainedAt)

	return lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
