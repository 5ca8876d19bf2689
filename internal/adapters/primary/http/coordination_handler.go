package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lorrc/coordination-backend/internal/adapters/primary/dto"
	mw "github.com/lorrc/coordination-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/coordination-backend/internal/adapters/primary/validation"
	"github.com/lorrc/coordination-backend/internal/core/domain"
	"github.com/lorrc/coordination-backend/internal/core/ports"
)

// maxImportedDismissals bounds the size of a replaced dismissal set.
const maxImportedDismissals = 1000

// CoordinationHandler serves the analytics views and the dismissal workflow.
type CoordinationHandler struct {
	service      ports.CoordinationService
	errorHandler *ErrorHandler
	writeLimit   func(http.Handler) http.Handler
	logger       *slog.Logger
}

// NewCoordinationHandler creates a new coordination handler. writeLimit, if
// non-nil, wraps every route that changes dismissal state.
func NewCoordinationHandler(
	service ports.CoordinationService,
	errorHandler *ErrorHandler,
	writeLimit func(http.Handler) http.Handler,
	logger *slog.Logger,
) *CoordinationHandler {
	if writeLimit == nil {
		writeLimit = func(next http.Handler) http.Handler { return next }
	}
	return &CoordinationHandler{
		service:      service,
		errorHandler: errorHandler,
		writeLimit:   writeLimit,
		logger:       logger.With("handler", "coordination"),
	}
}

// RegisterRoutes sets up the routing for all coordination endpoints.
func (h *CoordinationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/teams", h.HandleListTeams)
	r.Get("/features", h.HandleListFeatures)
	r.Get("/sprints", h.HandleListSprints)
	r.Get("/sprints/active", h.HandleActiveSprint)

	r.Route("/alignment", func(r chi.Router) {
		r.Get("/", h.HandleAlignment)
		r.Get("/features/{featureID}", h.HandleFeatureCoverage)
	})

	r.Route("/duplicates", func(r chi.Router) {
		r.Get("/", h.HandleDuplicates)
		r.Get("/dismissals", h.HandleExportDismissals)
		r.With(h.writeLimit).Put("/dismissals", h.HandleImportDismissals)
		r.With(h.writeLimit).Post("/{candidateID}/dismissal", h.HandleDismiss)
		r.With(h.writeLimit).Delete("/{candidateID}/dismissal", h.HandleRestore)
	})

	r.Route("/dependencies", func(r chi.Router) {
		r.Get("/", h.HandleDependencies)
		r.Get("/{dependencyID}", h.HandleDependencyDetail)
	})

	r.Route("/capacity", func(r chi.Router) {
		r.Get("/", h.HandleActiveCapacity)
		r.Get("/{sprintID}", h.HandleCapacity)
		r.Get("/{sprintID}/teams/{teamID}", h.HandleTeamCapacity)
	})
}

// ImportDismissalsRequest replaces a session's dismissed set.
type ImportDismissalsRequest struct {
	Dismissed []string `json:"dismissed"`
}

// Validate checks the request body.
func (req *ImportDismissalsRequest) Validate() error {
	v := validation.NewValidator()
	v.NotNil("dismissed", req.Dismissed != nil)
	v.MaxItems("dismissed", len(req.Dismissed), maxImportedDismissals)
	for i, id := range req.Dismissed {
		field := "dismissed[" + strconv.Itoa(i) + "]"
		v.Required(field, id)
	}
	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

func (h *CoordinationHandler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	WriteList(w, dto.FromTeams(h.service.Teams(r.Context())))
}

func (h *CoordinationHandler) HandleListFeatures(w http.ResponseWriter, r *http.Request) {
	WriteList(w, dto.FromFeatures(h.service.Features(r.Context())))
}

func (h *CoordinationHandler) HandleListSprints(w http.ResponseWriter, r *http.Request) {
	WriteList(w, dto.FromSprints(h.service.Sprints(r.Context())))
}

func (h *CoordinationHandler) HandleActiveSprint(w http.ResponseWriter, r *http.Request) {
	sprint, err := h.service.ActiveSprint(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, dto.FromSprint(sprint))
}

// HandleAlignment handles GET /alignment?teams=a,b
func (h *CoordinationHandler) HandleAlignment(w http.ResponseWriter, r *http.Request) {
	report := h.service.Alignment(r.Context(), validation.ParseTeamSelection(r))
	WriteJSON(w, http.StatusOK, dto.FromAlignment(report))
}

func (h *CoordinationHandler) HandleFeatureCoverage(w http.ResponseWriter, r *http.Request) {
	featureID := domain.FeatureID(chi.URLParam(r, "featureID"))

	coverage, err := h.service.FeatureCoverage(r.Context(), featureID, validation.ParseTeamSelection(r))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, dto.FromCoverage(coverage))
}

// HandleDuplicates handles GET /duplicates. Anonymous callers see every
// candidate; a session hides what it has dismissed.
func (h *CoordinationHandler) HandleDuplicates(w http.ResponseWriter, r *http.Request) {
	sessionID := mw.GetSessionID(r.Context())

	report, err := h.service.Duplicates(r.Context(), sessionID, validation.ParseTeamSelection(r))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, dto.FromDuplicates(report))
}

func (h *CoordinationHandler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	h.changeDismissal(w, r, h.service.DismissCandidate, "candidate dismissed")
}

func (h *CoordinationHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	h.changeDismissal(w, r, h.service.RestoreCandidate, "candidate restored")
}

type dismissalChange func(ctx context.Context, sessionID string, id domain.CandidateID) (domain.DismissedSet, error)

func (h *CoordinationHandler) changeDismissal(w http.ResponseWriter, r *http.Request, change dismissalChange, msg string) {
	candidateID := domain.CandidateID(chi.URLParam(r, "candidateID"))
	sessionID := mw.GetSessionID(r.Context())

	set, err := change(r.Context(), sessionID, candidateID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.logger.InfoContext(r.Context(), msg, "candidate_id", candidateID)
	WriteJSON(w, http.StatusOK, dto.FromDismissed(set))
}

func (h *CoordinationHandler) HandleExportDismissals(w http.ResponseWriter, r *http.Request) {
	set, err := h.service.ExportDismissals(r.Context(), mw.GetSessionID(r.Context()))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, dto.FromDismissed(set))
}

// HandleImportDismissals handles PUT /duplicates/dismissals. Ids are stored
// as given, including ids this snapshot does not know.
func (h *CoordinationHandler) HandleImportDismissals(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[ImportDismissalsRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	if HandleError(w, r, req.Validate(), h.errorHandler) {
		return
	}

	sessionID := mw.GetSessionID(r.Context())
	set, err := h.service.ImportDismissals(r.Context(), sessionID, dto.DismissalsDTO{Dismissed: req.Dismissed}.ToDismissed())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	h.logger.InfoContext(r.Context(), "dismissals replaced", "count", len(set))
	WriteJSON(w, http.StatusOK, dto.FromDismissed(set))
}

func (h *CoordinationHandler) HandleDependencies(w http.ResponseWriter, r *http.Request) {
	graph := h.service.Dependencies(r.Context(), validation.ParseTeamSelection(r))
	WriteJSON(w, http.StatusOK, dto.FromDependencyGraph(graph))
}

func (h *CoordinationHandler) HandleDependencyDetail(w http.ResponseWriter, r *http.Request) {
	depID := domain.DependencyID(chi.URLParam(r, "dependencyID"))

	node, err := h.service.DependencyDetail(r.Context(), depID, validation.ParseTeamSelection(r))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, dto.FromDependencyNode(node))
}

// HandleActiveCapacity handles GET /capacity for the sprint in progress.
func (h *CoordinationHandler) HandleActiveCapacity(w http.ResponseWriter, r *http.Request) {
	sprint, err := h.service.ActiveSprint(r.Context())
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	h.writeCapacity(w, r, sprint.ID)
}

func (h *CoordinationHandler) HandleCapacity(w http.ResponseWriter, r *http.Request) {
	sprintID, err := validation.ParseSprintID(chi.URLParam(r, "sprintID"))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	h.writeCapacity(w, r, sprintID)
}

func (h *CoordinationHandler) HandleTeamCapacity(w http.ResponseWriter, r *http.Request) {
	sprintID, err := validation.ParseSprintID(chi.URLParam(r, "sprintID"))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	teamID := domain.TeamID(chi.URLParam(r, "teamID"))

	load, err := h.service.TeamCapacity(r.Context(), sprintID, teamID)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, dto.FromTeamLoad(load))
}

func (h *CoordinationHandler) writeCapacity(w http.ResponseWriter, r *http.Request, sprintID domain.SprintID) {
	report, err := h.service.Capacity(r.Context(), sprintID, validation.ParseTeamSelection(r))
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	WriteJSON(w, http.StatusOK, dto.FromCapacity(report))
}
