package service

import (
	"context"

	"activityboard/internal/domain"
)

// ActivityAPI defines the operations the board needs from the remote activities API
type ActivityAPI interface {
	// GetActivities fetches the full catalog in the order the API lists it
	GetActivities(ctx context.Context) (domain.Catalog, error)

	// GetRankings fetches the leaderboard, already sorted by rank
	GetRankings(ctx context.Context) ([]domain.RankingEntry, error)

	// Signup registers email for activity and returns the API's confirmation text
	Signup(ctx context.Context, activity, email string) (string, error)

	// Unregister removes email from activity and returns the API's confirmation text
	Unregister(ctx context.Context, activity, email string) (string, error)
}

// MessageStore keeps the current banner of each browser session until it expires
type MessageStore interface {
	// Put replaces the session's message
	Put(ctx context.Context, sessionID string, msg domain.Message) error

	// Get returns the session's message, or nil when there is none or it has expired
	Get(ctx context.Context, sessionID string) (*domain.Message, error)
}

// Services aggregates the board's collaborators
type Services struct {
	Board *ActivityBoard
}
