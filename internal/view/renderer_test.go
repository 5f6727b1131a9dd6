package view

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activityboard/internal/domain"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func TestRenderer_Page(t *testing.T) {
	r := newTestRenderer(t)

	catalog := domain.NewCatalog(domain.Activity{
		Name:            "Chess Club",
		Description:     "Learn strategies & compete",
		Schedule:        "Fridays",
		MaxParticipants: 10,
		Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu", "sophia@mergington.edu"},
	})

	var buf bytes.Buffer
	err := r.Page(&buf, PageData{
		Activities: RenderActivities(catalog),
		Rankings:   RenderRankings([]domain.RankingEntry{{Email: "michael@mergington.edu", Points: 10, ActivityCount: 1}}),
		Message:    &MessageView{Kind: "success", Text: "Signed up michael@mergington.edu for Chess Club", HideAfterMS: 5000},
		Query:      "che",
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<h4>Chess Club</h4>")
	assert.Contains(t, html, "7 spots left")
	assert.Contains(t, html, "Learn strategies &amp; compete")
	assert.Contains(t, html, `class="delete-btn"`)
	assert.Contains(t, html, `action="/activities/Chess%20Club/unregister"`)
	assert.Contains(t, html, `<option value="">-- Select an activity --</option>`)
	assert.Contains(t, html, `<option value="Chess Club">Chess Club</option>`)
	assert.Contains(t, html, `class="rankings-table"`)
	assert.Contains(t, html, "🥇 1")
	assert.Contains(t, html, `id="message" class="success"`)
	assert.Contains(t, html, "animation-delay: 5000ms")
	assert.Contains(t, html, `value="che"`)
}

func TestRenderer_PageNotices(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	err := r.Page(&buf, PageData{
		Activities: NoticeActivities(domain.Catalog{}, ActivitiesFailed, true),
		Rankings:   RenderRankings(nil),
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<p>"+ActivitiesFailed+"</p>")
	assert.Contains(t, html, "<p><em>"+NoSignups+"</em></p>")
	assert.NotContains(t, html, "rankings-table")
	assert.Contains(t, html, `id="message" class="hidden"`)
}

func TestRenderer_NoParticipants(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	err := r.ActivitiesFragment(&buf, PageData{
		Activities: RenderActivities(domain.NewCatalog(domain.Activity{Name: "Drama Club", MaxParticipants: 5})),
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "<em>No participants yet</em>")
	assert.Contains(t, buf.String(), "5 spots left")
}

func TestRenderer_EscapesAPIText(t *testing.T) {
	r := newTestRenderer(t)

	var buf bytes.Buffer
	err := r.ActivitiesFragment(&buf, PageData{
		Activities: RenderActivities(domain.NewCatalog(domain.Activity{
			Name:         "<script>alert(1)</script>",
			Participants: []string{`"><img src=x>`},
		})),
	})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.NotContains(t, out, `"><img src=x>`)
	assert.True(t, strings.Contains(out, "&lt;script&gt;"))
}

func TestStatic(t *testing.T) {
	rec := httptest.NewRecorder()
	Static().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/styles.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "message-hide")
}
