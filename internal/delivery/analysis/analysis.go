package analysis

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Taze00/chess-coach/internal/bootstrap"
	domain "github.com/Taze00/chess-coach/internal/domain/analysis"
	"github.com/Taze00/chess-coach/internal/domain/game"
	apperrors "github.com/Taze00/chess-coach/internal/errors"
	"github.com/Taze00/chess-coach/internal/httpresponse"
	"github.com/Taze00/chess-coach/internal/progress"
	analysisuc "github.com/Taze00/chess-coach/internal/usecase/analysis"
)

type AnalysisHandler struct {
	cfg *bootstrap.Config
	log *zap.SugaredLogger
	uc  *analysisuc.AnalysisUseCase
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewAnalysisHandler(cfg *bootstrap.Config, log *zap.SugaredLogger, uc *analysisuc.AnalysisUseCase) *AnalysisHandler {
	return &AnalysisHandler{cfg: cfg, log: log, uc: uc}
}

type importGameRequest struct {
	UserID    string `json:"user_id"`
	PGN       string `json:"pgn"`
	Result    string `json:"result,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// HandleImportGame registers a finished game for analysis. PGN production
// is the import collaborator's job; the body is stored as supplied.
func (h *AnalysisHandler) HandleImportGame(w http.ResponseWriter, r *http.Request) {
	var req importGameRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.UserID == "" || req.PGN == "" {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "user_id and pgn are required")
		return
	}

	id, err := h.uc.ImportGame(r.Context(), game.Game{
		UserID:    req.UserID,
		PGN:       req.PGN,
		Result:    req.Result,
		SourceURL: req.SourceURL,
		PlayedAt:  time.Now(),
	})
	if err != nil {
		h.log.Errorw("import game failed", "error", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, map[string]string{"game_id": id})
}

type analyzeRequest struct {
	UserID string `json:"user_id"`
	Color  string `json:"color"`
}

// HandleAnalyzeGames runs the analysis pipeline over the user's unanalyzed
// games. The request blocks until the run finishes; progress can be polled
// concurrently on the progress endpoints.
func (h *AnalysisHandler) HandleAnalyzeGames(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	summary, err := h.uc.AnalyzeUserGames(r.Context(), req.UserID, req.Color)
	switch {
	case errors.Is(err, apperrors.ErrAmbiguousColor):
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, apperrors.ErrEngineUnavailable):
		h.log.Errorw("analysis aborted", "user_id", req.UserID, "error", err)
		httpresponse.WriteErrorResponse(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		h.log.Errorw("analysis failed", "user_id", req.UserID, "error", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, summary)
}

// HandleProgress reports the latest advisory snapshot for the user's run.
func (h *AnalysisHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	snap, err := h.uc.Progress(r.Context(), userID)
	if errors.Is(err, apperrors.ErrNoProgress) {
		httpresponse.WriteErrorResponse(w, http.StatusNotFound, "no analysis in progress")
		return
	}
	if err != nil {
		h.log.Errorw("progress lookup failed", "error", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, snap)
}

// HandleProgressWS streams progress snapshots until the run completes.
func (h *AnalysisHandler) HandleProgressWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	ctx := r.Context()
	var last progress.Snapshot
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		snap, err := h.uc.Progress(ctx, userID)
		if err != nil {
			continue
		}
		if snap == last {
			// Nothing to send; ping so a vanished client ends the loop.
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				return
			}
			continue
		}
		last = snap

		if err := conn.WriteJSON(snap); err != nil {
			return
		}
		if snap.Status == progress.StatusDone || snap.Status == progress.StatusFailed {
			return
		}
	}
}

// HandleListErrors lists stored error records, filterable by error type and
// tactical pattern, paged by the configured limit.
func (h *AnalysisHandler) HandleListErrors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ErrorFilter{
		ErrorType: domain.Severity(q.Get("error_type")),
		Pattern:   domain.TacticalPattern(q.Get("pattern")),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}

	stored, err := h.uc.ListErrors(r.Context(), q.Get("user_id"), filter)
	if err != nil {
		h.log.Errorw("list errors failed", "error", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, stored)
}

func (h *AnalysisHandler) HandleErrorByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	stored, err := h.uc.GetError(r.Context(), id)
	if errors.Is(err, apperrors.ErrErrorRecordNotFound) {
		httpresponse.WriteErrorResponse(w, http.StatusNotFound, "error record not found")
		return
	}
	if err != nil {
		h.log.Errorw("get error failed", "id", id, "error", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, stored)
}

// HandleStatistics reports aggregate counts and phase buckets for the user.
func (h *AnalysisHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.uc.Statistics(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		h.log.Errorw("statistics failed", "error", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, stats)
}

func (h *AnalysisHandler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		h.log.Errorw("json decode failed", "error", err)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}
