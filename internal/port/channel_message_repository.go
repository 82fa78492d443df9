package port

import (
	"context"

	"geoaddr/internal/domain"
)

// ChannelMessageRepository persists messages received from monitored channels.
type ChannelMessageRepository interface {
	// Upsert inserts or replaces the message keyed by (channel_id, message_id)
	// and fills the generated fields on msg.
	Upsert(ctx context.Context, msg *domain.ChannelMessage) error
	GetByKey(ctx context.Context, channelID string, messageID int64) (*domain.ChannelMessage, error)
	List(ctx context.Context, channelID string, offset, limit int) ([]domain.ChannelMessage, int, error)
	// ClaimUnprocessed leases up to limit unprocessed messages to the caller.
	ClaimUnprocessed(ctx context.Context, limit int) ([]domain.ChannelMessage, error)
	UpdateParsed(ctx context.Context, msg *domain.ChannelMessage) error
	// ResetProcessed clears processed_at on every message of channelID, or on
	// all messages when channelID is empty. It returns the number of rows reset.
	ResetProcessed(ctx context.Context, channelID string) (int64, error)
	ListPoints(ctx context.Context, limit int) ([]domain.MapPoint, error)
}
