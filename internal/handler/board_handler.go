package handler

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"activityboard/internal/middleware"
	"activityboard/internal/service"
	"activityboard/internal/view"
	"activityboard/pkg/logger"
)

// BoardHandler serves the server-rendered activity board
type BoardHandler struct {
	board    *service.ActivityBoard
	renderer *view.Renderer
	logger   *logger.Logger
	csrf     bool
}

// NewBoardHandler creates a board handler. withCSRF adds the token field to every form.
func NewBoardHandler(board *service.ActivityBoard, renderer *view.Renderer, logger *logger.Logger, withCSRF bool) *BoardHandler {
	return &BoardHandler{
		board:    board,
		renderer: renderer,
		logger:   logger,
		csrf:     withCSRF,
	}
}

// RegisterRoutes mounts the board routes
func (h *BoardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/search", h.Search)
	r.Get("/fragments/activities", h.ActivitiesFragment)

	r.Post("/signup", h.SignupForm)
	r.Route("/activities/{name}", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/unregister", h.Unregister)
		r.Delete("/unregister", h.Unregister)
	})
}

// Index handles GET / by reloading activities and rankings before rendering
func (h *BoardHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.board.LoadActivities(r.Context())
	h.renderPage(w, r, r.URL.Query().Get("q"))
}

// Search handles GET /search, filtering the cached activities without a fetch
func (h *BoardHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, r.URL.Query().Get("q"))
}

// ActivitiesFragment handles GET /fragments/activities
func (h *BoardHandler) ActivitiesFragment(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(r, r.URL.Query().Get("q"))

	var buf bytes.Buffer
	if err := h.renderer.ActivitiesFragment(&buf, data); err != nil {
		h.renderError(w, r, err)
		return
	}
	h.writeHTML(w, buf.Bytes())
}

// SignupForm handles POST /signup from the page's signup form
func (h *BoardHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.board.Signup(r.Context(), middleware.GetSessionID(r.Context()), r.FormValue("activity"), r.FormValue("email"))
	redirectToBoard(w, r)
}

// Signup handles POST /activities/{name}/signup
func (h *BoardHandler) Signup(w http.ResponseWriter, r *http.Request) {
	h.board.Signup(r.Context(), middleware.GetSessionID(r.Context()), activityParam(r), r.FormValue("email"))
	redirectToBoard(w, r)
}

// Unregister handles POST and DELETE /activities/{name}/unregister
func (h *BoardHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	h.board.Unregister(r.Context(), middleware.GetSessionID(r.Context()), activityParam(r), r.FormValue("email"))
	redirectToBoard(w, r)
}

func (h *BoardHandler) renderPage(w http.ResponseWriter, r *http.Request, query string) {
	data := h.pageData(r, query)

	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, data); err != nil {
		h.renderError(w, r, err)
		return
	}
	h.writeHTML(w, buf.Bytes())
}

func (h *BoardHandler) pageData(r *http.Request, query string) view.PageData {
	ctx := r.Context()
	screen := h.board.Snapshot(query)

	data := view.PageData{
		Activities: screen.Activities,
		Rankings:   screen.Rankings,
		Message:    view.NewMessageView(h.board.Message(ctx, middleware.GetSessionID(ctx)), h.board.Now()),
		Query:      query,
	}
	if h.csrf {
		data.CSRFField = csrf.TemplateField(r)
	}
	return data
}

func (h *BoardHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WithError(err).WithField("request_id", middleware.GetRequestID(r.Context())).Error("Failed to render board")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (h *BoardHandler) writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// activityParam returns the decoded {name} segment. chi matches on RawPath when
// it is set, so names with escaped characters arrive still encoded.
func activityParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	decoded, err := url.PathUnescape(name)
	if err != nil {
		return name
	}
	return decoded
}

// redirectToBoard sends the browser back to the board after a form post. The target
// renders from the cache: a successful call has already reloaded it.
func redirectToBoard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/search", http.StatusSeeOther)
}
