// Package view turns board data into view models and HTML.
package view

import (
	"fmt"
	"net/url"
	"time"

	"activityboard/internal/domain"
)

// Static texts shown in place of data
const (
	LoadingActivities   = "Loading activities..."
	ActivitiesFailed    = "Failed to load activities. Please try again later."
	LoadingRankings     = "Loading rankings..."
	RankingsFailed      = "Failed to load rankings. Please try again later."
	NoSignups           = "No students have signed up yet"
	SelectActivityLabel = "-- Select an activity --"
)

// ActivitiesView is the activity list area plus the signup dropdown
type ActivitiesView struct {
	Cards   []ActivityCard
	Options []SelectOption
	// Notice replaces the list when set (loading or failure)
	Notice string
	Failed bool
}

// ActivityCard is one rendered activity
type ActivityCard struct {
	Name         string
	Description  string
	Schedule     string
	SpotsLeft    int
	Participants []Participant
}

// Availability is the "N spots left" line
func (c ActivityCard) Availability() string {
	return fmt.Sprintf("%d spots left", c.SpotsLeft)
}

// Participant is a signed-up email with its unregister action
type Participant struct {
	Email          string
	Activity       string
	UnregisterPath string
}

// SelectOption is one entry of the activity dropdown
type SelectOption struct {
	Value string
	Label string
}

// RenderActivities builds the list and dropdown for the given catalog.
// It depends on nothing but its argument; every call yields fresh actions.
func RenderActivities(catalog domain.Catalog) ActivitiesView {
	v := ActivitiesView{
		Cards:   make([]ActivityCard, 0, catalog.Len()),
		Options: selectOptions(catalog),
	}

	for _, a := range catalog.Activities() {
		card := ActivityCard{
			Name:        a.Name,
			Description: a.Description,
			Schedule:    a.Schedule,
			SpotsLeft:   a.SpotsLeft(),
		}
		for _, email := range a.Participants {
			card.Participants = append(card.Participants, Participant{
				Email:          email,
				Activity:       a.Name,
				UnregisterPath: ActionPath(a.Name, "unregister"),
			})
		}
		v.Cards = append(v.Cards, card)
	}
	return v
}

// NoticeActivities replaces the list with text while keeping the dropdown of catalog
func NoticeActivities(catalog domain.Catalog, text string, failed bool) ActivitiesView {
	return ActivitiesView{
		Options: selectOptions(catalog),
		Notice:  text,
		Failed:  failed,
	}
}

func selectOptions(catalog domain.Catalog) []SelectOption {
	options := make([]SelectOption, 0, catalog.Len()+1)
	options = append(options, SelectOption{Value: "", Label: SelectActivityLabel})
	for _, name := range catalog.Names() {
		options = append(options, SelectOption{Value: name, Label: name})
	}
	return options
}

// ActionPath is the board route for a signup or unregister on activity
func ActionPath(activity, action string) string {
	return "/activities/" + url.PathEscape(activity) + "/" + action
}

// RankingsView is the leaderboard area
type RankingsView struct {
	Rows []RankingRow
	// Notice replaces the table when set (loading, empty or failure)
	Notice string
	Failed bool
}

// RankingRow is one leaderboard line
type RankingRow struct {
	Rank          int
	Medal         string
	TopRank       bool
	Email         string
	Points        int
	ActivityCount int
}

// RenderRankings numbers entries 1..N in the order given. No entries yields the placeholder.
func RenderRankings(entries []domain.RankingEntry) RankingsView {
	if len(entries) == 0 {
		return RankingsView{Notice: NoSignups}
	}

	rows := make([]RankingRow, 0, len(entries))
	for i, e := range entries {
		rank := i + 1
		rows = append(rows, RankingRow{
			Rank:          rank,
			Medal:         domain.Medal(rank),
			TopRank:       domain.IsTopRank(rank),
			Email:         e.Email,
			Points:        e.Points,
			ActivityCount: e.ActivityCount,
		})
	}
	return RankingsView{Rows: rows}
}

// MessageView is the banner as rendered
type MessageView struct {
	Kind        string
	Text        string
	HideAfterMS int64
}

// NewMessageView returns nil when msg is nil or no longer visible at now
func NewMessageView(msg *domain.Message, now time.Time) *MessageView {
	if msg == nil || !msg.VisibleAt(now) {
		return nil
	}
	return &MessageView{
		Kind:        string(msg.Kind),
		Text:        msg.Text,
		HideAfterMS: msg.Remaining(now).Milliseconds(),
	}
}
