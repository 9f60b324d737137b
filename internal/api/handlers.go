// Package api exposes HTTP handlers for the leaderboard service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/leaderboard/internal/auth"
	"example.com/leaderboard/internal/domain"
	"example.com/leaderboard/internal/observability"
	"example.com/leaderboard/internal/service"
	"example.com/leaderboard/internal/workout"
)

// Handler coordinates HTTP requests with the aggregation core.
type Handler struct {
	service  *service.Service
	workouts *workout.Catalog
}

// NewHandler builds a Handler.
func NewHandler(service *service.Service, workouts *workout.Catalog) *Handler {
	return &Handler{service: service, workouts: workouts}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/leaderboard", h.leaderboard)
	mux.HandleFunc("/v1/leaderboard/recompute", h.recompute)
	mux.HandleFunc("/v1/users/", h.userSummary)
	mux.HandleFunc("/v1/teams/", h.teamStats)
	mux.HandleFunc("/v1/workouts", h.listWorkouts)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeLeaderboardRead) {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}
	teamID := r.URL.Query().Get("team_id")

	entries, err := h.service.GetLeaderboard(r.Context(), limit, teamID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]LeaderboardEntryView, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toEntryView(entry))
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{Items: items})
}

func (h *Handler) recompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeLeaderboardRecompute) {
		return
	}

	observability.RecordRecomputeTriggered("api")
	report, err := h.service.RecomputeAll(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrRecomputeInProgress) {
			writeError(w, http.StatusConflict, "recompute_in_progress", "a recompute pass is already running")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toReportView(report))
}

func (h *Handler) userSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeLeaderboardRead) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	userID, ok := strings.CutSuffix(rest, "/summary")
	if !ok || userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
		return
	}

	summary, err := h.service.Summarize(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		var malformed *domain.MalformedRecordError
		if errors.As(err, &malformed) {
			writeError(w, http.StatusUnprocessableEntity, "aggregation_failed", malformed.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toSummaryView(summary))
}

func (h *Handler) teamStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeLeaderboardRead) {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/teams/")
	teamID, ok := strings.CutSuffix(rest, "/stats")
	if !ok || teamID == "" || strings.Contains(teamID, "/") {
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
		return
	}

	stat, err := h.service.GetTeamStat(r.Context(), teamID)
	if err != nil {
		if errors.Is(err, domain.ErrTeamNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toTeamStatView(stat))
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !requireScope(w, r, auth.ScopeLeaderboardRead) {
		return
	}

	// Every query parameter is treated as a filter field; the catalog
	// rejects names it does not recognize.
	filters := make([]workout.Filter, 0, 2)
	for key, values := range r.URL.Query() {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		filters = append(filters, workout.Filter{Field: workout.Field(key), Value: values[0]})
	}

	workouts, err := h.workouts.List(r.Context(), filters...)
	if err != nil {
		if errors.Is(err, workout.ErrUnknownFilterField) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, WorkoutsResponse{Items: workouts})
}

func requireScope(w http.ResponseWriter, r *http.Request, scope string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if !claims.HasScope(scope) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
		return false
	}
	return true
}

// UserSummaryView mirrors domain.UserSummary on the wire.
type UserSummaryView struct {
	UserID          string  `json:"user_id"`
	TeamID          string  `json:"team_id,omitempty"`
	TotalActivities int     `json:"total_activities"`
	TotalDuration   int     `json:"total_duration"`
	TotalCalories   int     `json:"total_calories"`
	TotalDistance   float64 `json:"total_distance"`
}

// LeaderboardEntryView is one ranked row of the leaderboard response.
type LeaderboardEntryView struct {
	UserID          string    `json:"user_id"`
	TeamID          string    `json:"team_id,omitempty"`
	Rank            int       `json:"rank"`
	TotalActivities int       `json:"total_activities"`
	TotalDuration   int       `json:"total_duration"`
	TotalCalories   int       `json:"total_calories"`
	TotalDistance   float64   `json:"total_distance"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LeaderboardResponse packages ranked entries.
type LeaderboardResponse struct {
	Items []LeaderboardEntryView `json:"items"`
}

// TeamStatView mirrors domain.TeamStat on the wire.
type TeamStatView struct {
	TeamID          string  `json:"team_id"`
	TeamName        string  `json:"team_name"`
	TotalActivities int     `json:"total_activities"`
	TotalCalories   int     `json:"total_calories"`
	TotalDistance   float64 `json:"total_distance"`
	MemberCount     int     `json:"member_count"`
}

// RecomputeErrorView names a user excluded from a pass.
type RecomputeErrorView struct {
	UserID string `json:"user_id"`
	Cause  string `json:"cause"`
}

// RecomputeReportView describes a completed pass.
type RecomputeReportView struct {
	UsersProcessed int                  `json:"users_processed"`
	EntriesWritten int                  `json:"entries_written"`
	Errors         []RecomputeErrorView `json:"errors"`
	StartedAt      time.Time            `json:"started_at"`
	FinishedAt     time.Time            `json:"finished_at"`
}

// WorkoutsResponse packages workout suggestions.
type WorkoutsResponse struct {
	Items []workout.Workout `json:"items"`
}

func toSummaryView(s domain.UserSummary) UserSummaryView {
	return UserSummaryView{
		UserID:          s.UserID,
		TeamID:          s.TeamID,
		TotalActivities: s.TotalActivities,
		TotalDuration:   s.TotalDuration,
		TotalCalories:   s.TotalCalories,
		TotalDistance:   s.TotalDistance,
	}
}

func toEntryView(e domain.LeaderboardEntry) LeaderboardEntryView {
	return LeaderboardEntryView{
		UserID:          e.UserID,
		TeamID:          e.TeamID,
		Rank:            e.Rank,
		TotalActivities: e.TotalActivities,
		TotalDuration:   e.TotalDuration,
		TotalCalories:   e.TotalCalories,
		TotalDistance:   e.TotalDistance,
		UpdatedAt:       e.UpdatedAt,
	}
}

func toTeamStatView(s domain.TeamStat) TeamStatView {
	return TeamStatView{
		TeamID:          s.TeamID,
		TeamName:        s.TeamName,
		TotalActivities: s.TotalActivities,
		TotalCalories:   s.TotalCalories,
		TotalDistance:   s.TotalDistance,
		MemberCount:     s.MemberCount,
	}
}

func toReportView(report domain.RecomputeReport) RecomputeReportView {
	errs := make([]RecomputeErrorView, 0, len(report.Errors))
	for _, e := range report.Errors {
		errs = append(errs, RecomputeErrorView{UserID: e.UserID, Cause: e.Cause})
	}
	return RecomputeReportView{
		UsersProcessed: report.UsersProcessed,
		EntriesWritten: report.EntriesWritten,
		Errors:         errs,
		StartedAt:      report.StartedAt,
		FinishedAt:     report.FinishedAt,
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
