package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"teamsort/internal/assessment"
	"teamsort/internal/domain"
	"teamsort/internal/session/models"
	"teamsort/pkg/platform/httputil"
	"teamsort/pkg/requestcontext"
)

// Service is the session controller as seen by the HTTP bridge.
type Service interface {
	View() models.View
	Dashboard() models.DashboardStats
	Bank() assessment.Bank
	BeginIntake(ctx context.Context) (models.View, error)
	SubmitIntake(ctx context.Context, input models.IntakeInput) (models.View, error)
	SubmitAnswer(ctx context.Context, weight int) (models.View, error)
	OpenDashboard(ctx context.Context) (models.View, error)
	ShowResults(ctx context.Context) (models.View, error)
	Back(ctx context.Context) (models.View, error)
	Abandon(ctx context.Context) (models.View, error)
	Finalize(ctx context.Context) (models.View, error)
}

// Handler wires session endpoints to the session controller.
type Handler struct {
	service       Service
	logger        *slog.Logger
	operatorGuard func(http.Handler) http.Handler
}

// New constructs a session handler. operatorGuard protects the dashboard
// stats and finalize routes; nil leaves them open.
func New(service Service, logger *slog.Logger, operatorGuard func(http.Handler) http.Handler) *Handler {
	return &Handler{
		service:       service,
		logger:        logger,
		operatorGuard: operatorGuard,
	}
}

// Register mounts session endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/session", h.HandleView)
	r.Get("/session/questions", h.HandleQuestions)
	r.Get("/session/categories", h.HandleCategories)
	r.Post("/session/intake/begin", h.intent("begin_intake", h.service.BeginIntake))
	r.Post("/session/intake", h.HandleSubmitIntake)
	r.Post("/session/intake/back", h.intent("back", h.service.Back))
	r.Post("/session/answers", h.HandleSubmitAnswer)
	r.Post("/session/abandon", h.intent("abandon", h.service.Abandon))
	r.Post("/session/dashboard", h.intent("open_dashboard", h.service.OpenDashboard))
	r.Post("/session/results", h.intent("show_results", h.service.ShowResults))
	r.Post("/session/welcome", h.intent("back", h.service.Back))

	r.Group(func(r chi.Router) {
		if h.operatorGuard != nil {
			r.Use(h.operatorGuard)
		}
		r.Get("/session/dashboard", h.HandleDashboard)
		r.Post("/session/finalize", h.HandleFinalize)
	})
}

// HandleView handles GET /session.
func (h *Handler) HandleView(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.View())
}

// HandleQuestions handles GET /session/questions.
func (h *Handler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, FromBank(h.service.Bank()))
}

// HandleCategories handles GET /session/categories.
func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, &CategoriesResponse{Categories: domain.Categories})
}

// HandleSubmitIntake handles POST /session/intake.
func (h *Handler) HandleSubmitIntake(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[IntakeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	view, err := h.service.SubmitIntake(ctx, req.Input())
	h.respond(w, r, "submit_intake", view, err)
}

// HandleSubmitAnswer handles POST /session/answers.
func (h *Handler) HandleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AnswerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	view, err := h.service.SubmitAnswer(ctx, *req.Weight)
	h.respond(w, r, "answer", view, err)
}

// HandleDashboard handles GET /session/dashboard.
func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Dashboard())
}

// HandleFinalize handles POST /session/finalize.
func (h *Handler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, err := h.service.Finalize(ctx)
	if err == nil {
		h.logger.InfoContext(ctx, "session finalized by operator",
			"request_id", requestcontext.RequestID(ctx),
			"operator", requestcontext.Operator(ctx),
			"roster_size", len(view.Roster),
		)
	}
	h.respond(w, r, "finalize", view, err)
}

func (h *Handler) intent(name string, call func(context.Context) (models.View, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := call(r.Context())
		h.respond(w, r, name, view, err)
	}
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, intent string, view models.View, err error) {
	if err != nil {
		ctx := r.Context()
		h.logger.WarnContext(ctx, "session intent failed",
			"request_id", requestcontext.RequestID(ctx),
			"intent", intent,
			"step", view.Step,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}
