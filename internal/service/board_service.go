package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"activityboard/internal/domain"
	"activityboard/internal/view"
	apperrors "activityboard/pkg/errors"
	"activityboard/pkg/logger"
)

// Banner texts for failures that carry no server explanation
const (
	GenericRejection    = "An error occurred"
	SignupFailed        = "Failed to sign up. Please try again."
	UnregisterFailed    = "Failed to unregister. Please try again."
	MissingSignupFields = "Please enter an email and select an activity."
)

// Screen is the shared part of the board page: activities and rankings
type Screen struct {
	Activities      view.ActivitiesView
	ActivitiesState domain.LoadState
	Rankings        view.RankingsView
	RankingsState   domain.LoadState
}

// BoardOption customises an ActivityBoard
type BoardOption func(*ActivityBoard)

// WithClock replaces time.Now, used for message timestamps
func WithClock(now func() time.Time) BoardOption {
	return func(b *ActivityBoard) { b.now = now }
}

// WithMessageTTL changes how long banners stay visible
func WithMessageTTL(ttl time.Duration) BoardOption {
	return func(b *ActivityBoard) { b.messageTTL = ttl }
}

// ActivityBoard keeps the last fetched catalog and rankings and turns user actions into API calls.
// The API stays the source of truth: the snapshot is only replaced by a successful fetch.
type ActivityBoard struct {
	api        ActivityAPI
	messages   MessageStore
	logger     *logger.Logger
	now        func() time.Time
	messageTTL time.Duration

	mu              sync.RWMutex
	catalog         domain.Catalog
	loaded          bool
	activitiesState domain.LoadState
	rankings        view.RankingsView
	rankingsState   domain.LoadState
}

// NewActivityBoard creates a board in the idle state with an empty catalog
func NewActivityBoard(api ActivityAPI, messages MessageStore, logger *logger.Logger, opts ...BoardOption) *ActivityBoard {
	b := &ActivityBoard{
		api:             api,
		messages:        messages,
		logger:          logger,
		now:             time.Now,
		messageTTL:      domain.DefaultMessageTTL,
		activitiesState: domain.StateIdle,
		rankingsState:   domain.StateIdle,
		rankings:        view.RankingsView{Notice: view.LoadingRankings},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// LoadActivities fetches the catalog, replaces the cache and then refreshes rankings.
// A failure is logged and leaves the previous catalog cached; rankings are not refreshed then.
func (b *ActivityBoard) LoadActivities(ctx context.Context) {
	b.setActivitiesState(domain.StateLoading)

	catalog, err := b.api.GetActivities(ctx)
	if err != nil {
		b.logger.WithError(err).Error("Error fetching activities")
		b.setActivitiesState(domain.StateFailed)
		return
	}

	b.mu.Lock()
	b.catalog = catalog
	b.loaded = true
	b.activitiesState = domain.StateLoaded
	b.mu.Unlock()

	b.logger.WithField("activities", catalog.Len()).Debug("Activities loaded")
	b.LoadRankings(ctx)
}

// LoadRankings fetches the leaderboard and rebuilds the rankings view
func (b *ActivityBoard) LoadRankings(ctx context.Context) {
	b.mu.Lock()
	b.rankingsState = domain.StateLoading
	b.mu.Unlock()

	entries, err := b.api.GetRankings(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.logger.WithError(err).Error("Error fetching rankings")
		b.rankings = view.RankingsView{Notice: view.RankingsFailed, Failed: true}
		b.rankingsState = domain.StateFailed
		return
	}
	b.rankings = view.RenderRankings(entries)
	b.rankingsState = domain.StateLoaded
}

// FilterActivitiesByName renders the cached activities whose name contains text, ignoring case.
// It never calls the API.
func (b *ActivityBoard) FilterActivitiesByName(text string) view.ActivitiesView {
	return view.RenderActivities(b.Catalog().FilterByName(text))
}

// Catalog returns the cached catalog
func (b *ActivityBoard) Catalog() domain.Catalog {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.catalog
}

// Snapshot renders the board from the cache as the last load left it.
// query filters the list unless the last load failed, in which case the failure text is shown.
// Before the first successful load the list shows a loading notice.
func (b *ActivityBoard) Snapshot(query string) Screen {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := Screen{
		ActivitiesState: b.activitiesState,
		Rankings:        b.rankings,
		RankingsState:   b.rankingsState,
	}

	switch {
	case b.activitiesState == domain.StateFailed:
		s.Activities = view.NoticeActivities(b.catalog, view.ActivitiesFailed, true)
	case !b.loaded:
		s.Activities = view.NoticeActivities(b.catalog, view.LoadingActivities, false)
	default:
		// a reload in flight keeps showing the previous list
		s.Activities = view.RenderActivities(b.catalog.FilterByName(query))
	}
	return s
}

// Signup asks the API to register email for activity and records the outcome as the
// session's banner. A success reloads the activities.
func (b *ActivityBoard) Signup(ctx context.Context, sessionID, activity, email string) domain.Message {
	return b.mutate(ctx, sessionID, "signup", activity, email, b.api.Signup, SignupFailed)
}

// Unregister asks the API to remove email from activity, like Signup
func (b *ActivityBoard) Unregister(ctx context.Context, sessionID, activity, email string) domain.Message {
	return b.mutate(ctx, sessionID, "unregister", activity, email, b.api.Unregister, UnregisterFailed)
}

type mutation func(ctx context.Context, activity, email string) (string, error)

func (b *ActivityBoard) mutate(ctx context.Context, sessionID, action, activity, email string, call mutation, failure string) domain.Message {
	log := b.logger.WithFields(map[string]interface{}{
		"action":   action,
		"activity": activity,
		"email":    email,
	})

	if strings.TrimSpace(activity) == "" || strings.TrimSpace(email) == "" {
		return b.show(ctx, sessionID, domain.MessageError, MissingSignupFields)
	}

	text, err := call(ctx, activity, email)
	if err == nil {
		log.Info("Activities API accepted request")
		msg := b.show(ctx, sessionID, domain.MessageSuccess, text)
		b.LoadActivities(ctx)
		return msg
	}

	if appErr, ok := apperrors.As(err); ok && appErr.Type == apperrors.ErrorTypeRejected {
		log.WithField("status_code", appErr.StatusCode).Info("Activities API rejected request")
		detail := appErr.Detail
		if detail == "" {
			detail = GenericRejection
		}
		return b.show(ctx, sessionID, domain.MessageError, detail)
	}

	log.WithError(err).Error("Error calling activities API")
	return b.show(ctx, sessionID, domain.MessageError, failure)
}

// Message returns the session's banner while it is visible
func (b *ActivityBoard) Message(ctx context.Context, sessionID string) *domain.Message {
	if sessionID == "" {
		return nil
	}
	msg, err := b.messages.Get(ctx, sessionID)
	if err != nil {
		b.logger.WithError(err).Warn("Failed to load message")
		return nil
	}
	return msg
}

// Now is the board's clock
func (b *ActivityBoard) Now() time.Time {
	return b.now()
}

func (b *ActivityBoard) show(ctx context.Context, sessionID string, kind domain.MessageKind, text string) domain.Message {
	msg := domain.NewMessage(kind, text, b.now(), b.messageTTL)
	if sessionID == "" {
		return msg
	}
	if err := b.messages.Put(ctx, sessionID, msg); err != nil {
		b.logger.WithError(err).Warn("Failed to store message")
	}
	return msg
}

func (b *ActivityBoard) setActivitiesState(s domain.LoadState) {
	b.mu.Lock()
	b.activitiesState = s
	b.mu.Unlock()
}
