package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"geoaddr/internal/domain"
	"geoaddr/internal/port"
)

// JSONB columns are read through COALESCE so NULL scans into json.RawMessage.
const channelMessageColumns = `id, channel_id, message_id, raw_message, parsed_lat, parsed_lon,
	parsed_text, COALESCE(keywords, 'null'::jsonb) AS keywords, COALESCE(metadata, 'null'::jsonb) AS metadata,
	processed_at, created_at, updated_at`

// claimLease is how long a claimed message stays invisible to other workers.
const claimLease = 10 * time.Minute

type channelMessageRepo struct {
	db *sqlx.DB
}

// NewChannelMessageRepo creates a new PostgreSQL-backed ChannelMessageRepository.
func NewChannelMessageRepo(db *sqlx.DB) port.ChannelMessageRepository {
	return &channelMessageRepo{db: db}
}

func (r *channelMessageRepo) Upsert(ctx context.Context, msg *domain.ChannelMessage) error {
	now := time.Now().UTC()
	msg.UpdatedAt = now

	query := `INSERT INTO channel_messages
			(channel_id, message_id, raw_message, parsed_lat, parsed_lon, parsed_text,
			 keywords, metadata, processed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (channel_id, message_id) DO UPDATE SET
			raw_message = EXCLUDED.raw_message,
			parsed_lat = EXCLUDED.parsed_lat,
			parsed_lon = EXCLUDED.parsed_lon,
			parsed_text = EXCLUDED.parsed_text,
			keywords = EXCLUDED.keywords,
			metadata = EXCLUDED.metadata,
			processed_at = EXCLUDED.processed_at,
			claimed_at = NULL,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		msg.ChannelID, msg.MessageID, msg.RawMessage, msg.ParsedLat, msg.ParsedLon, msg.ParsedText,
		nullJSON(msg.Keywords), nullJSON(msg.Metadata), msg.ProcessedAt, now,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("channelMessageRepo.Upsert: %w", err)
	}
	return nil
}

func (r *channelMessageRepo) GetByKey(ctx context.Context, channelID string, messageID int64) (*domain.ChannelMessage, error) {
	var msg domain.ChannelMessage
	err := r.db.GetContext(ctx, &msg,
		"SELECT "+channelMessageColumns+" FROM channel_messages WHERE channel_id = $1 AND message_id = $2",
		channelID, messageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("channelMessageRepo.GetByKey: %w", err)
	}
	return &msg, nil
}

func (r *channelMessageRepo) List(ctx context.Context, channelID string, offset, limit int) ([]domain.ChannelMessage, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM channel_messages WHERE ($1 = '' OR channel_id = $1)", channelID)
	if err != nil {
		return nil, 0, fmt.Errorf("channelMessageRepo.List count: %w", err)
	}

	var msgs []domain.ChannelMessage
	err = r.db.SelectContext(ctx, &msgs,
		`SELECT `+channelMessageColumns+` FROM channel_messages
		WHERE ($1 = '' OR channel_id = $1)
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		channelID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("channelMessageRepo.List: %w", err)
	}
	return msgs, total, nil
}

func (r *channelMessageRepo) ClaimUnprocessed(ctx context.Context, limit int) ([]domain.ChannelMessage, error) {
	var msgs []domain.ChannelMessage
	err := r.db.SelectContext(ctx, &msgs,
		`UPDATE channel_messages SET claimed_at = NOW()
		WHERE id IN (
			SELECT id FROM channel_messages
			WHERE processed_at IS NULL
			  AND (claimed_at IS NULL OR claimed_at < NOW() - make_interval(secs => $2))
			ORDER BY created_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+channelMessageColumns,
		limit, claimLease.Seconds())
	if err != nil {
		return nil, fmt.Errorf("channelMessageRepo.ClaimUnprocessed: %w", err)
	}
	return msgs, nil
}

func (r *channelMessageRepo) UpdateParsed(ctx context.Context, msg *domain.ChannelMessage) error {
	msg.UpdatedAt = time.Now().UTC()
	query := `UPDATE channel_messages
		SET parsed_lat = $1, parsed_lon = $2, parsed_text = $3, metadata = $4,
			processed_at = $5, claimed_at = NULL, updated_at = $6
		WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query,
		msg.ParsedLat, msg.ParsedLon, msg.ParsedText, nullJSON(msg.Metadata),
		msg.ProcessedAt, msg.UpdatedAt, msg.ID)
	if err != nil {
		return fmt.Errorf("channelMessageRepo.UpdateParsed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *channelMessageRepo) ResetProcessed(ctx context.Context, channelID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE channel_messages
		SET processed_at = NULL, claimed_at = NULL, parsed_lat = NULL, parsed_lon = NULL,
			parsed_text = NULL, updated_at = NOW()
		WHERE ($1 = '' OR channel_id = $1)`, channelID)
	if err != nil {
		return 0, fmt.Errorf("channelMessageRepo.ResetProcessed: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (r *channelMessageRepo) ListPoints(ctx context.Context, limit int) ([]domain.MapPoint, error) {
	var points []domain.MapPoint
	err := r.db.SelectContext(ctx, &points,
		`SELECT channel_id, message_id, parsed_lat, parsed_lon,
			COALESCE(parsed_text, '') AS parsed_text, raw_message, created_at
		FROM channel_messages
		WHERE parsed_lat IS NOT NULL AND parsed_lon IS NOT NULL
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("channelMessageRepo.ListPoints: %w", err)
	}
	return points, nil
}

// nullJSON stores empty or null JSON as SQL NULL.
func nullJSON(b []byte) interface{} {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	return string(b)
}
