package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	genApp "github.com/felixgeelhaar/schedgen/internal/generation/application"
	"github.com/felixgeelhaar/schedgen/internal/generation/domain"
	"github.com/google/uuid"
)

// GenerationHandler serves the generation job submission and status endpoints.
type GenerationHandler struct {
	runner *genApp.JobRunner
}

// NewGenerationHandler creates a handler backed by runner.
func NewGenerationHandler(runner *genApp.JobRunner) *GenerationHandler {
	return &GenerationHandler{runner: runner}
}

type generateRequest struct {
	DataScope   string   `json:"data_scope"`
	CourseIDs   []string `json:"course_ids,omitempty"`
	WindowStart string   `json:"window_start"` // YYYY-MM-DD
	WindowEnd   string   `json:"window_end"`   // YYYY-MM-DD
}

type generateResponse struct {
	JobID       string `json:"job_id"`
	StatusURL   string `json:"status_url"`
	RedirectURL string `json:"redirect_url"`
	Label       string `json:"label"`
}

// Generate handles POST /generate: it validates the request, submits a job,
// and returns immediately with the job id and polling URL.
func (h *GenerationHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DataScope == "" {
		writeError(w, http.StatusBadRequest, "data_scope is required")
		return
	}

	start, err := time.Parse("2006-01-02", req.WindowStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "window_start must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.WindowEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "window_end must be YYYY-MM-DD")
		return
	}

	courseIDs := make([]uuid.UUID, 0, len(req.CourseIDs))
	for _, raw := range req.CourseIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid course id %q", raw))
			return
		}
		courseIDs = append(courseIDs, id)
	}

	job := domain.NewJob(req.DataScope, courseIDs, domain.DateRange{Start: start, End: end})
	jobID := h.runner.Submit(r.Context(), job, 0)

	writeJSON(w, http.StatusAccepted, generateResponse{
		JobID:       jobID.String(),
		StatusURL:   fmt.Sprintf("/generate/%s/status", jobID),
		RedirectURL: fmt.Sprintf("/generate/%s", jobID),
		Label:       fmt.Sprintf("schedule generation for %s", req.DataScope),
	})
}

type sessionRow struct {
	Course     string `json:"course"`
	ClassLabel string `json:"class_label"`
	Subgroup   string `json:"subgroup"`
	Teacher    string `json:"teacher"`
	Time       string `json:"time"`
	Type       string `json:"type"`
}

type statusResponse struct {
	Percent           float64      `json:"percent"`
	State             string       `json:"state"`
	Message           string       `json:"message"`
	Detail            string       `json:"detail"`
	ETASeconds        float64      `json:"eta_seconds"`
	CurrentWeekLabel  string       `json:"current_week_label"`
	CurrentWeekSessions []sessionRow `json:"current_week_sessions"`
	Finished          bool         `json:"finished"`
}

// Status handles GET /generate/{job_id}/status: it returns the job's current
// progress snapshot.
func (h *GenerationHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(r.PathValue("job_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return
	}

	snapshot, err := h.runner.Status(jobID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	finished := snapshot.State == domain.JobSuccess ||
		snapshot.State == domain.JobFailed ||
		snapshot.State == domain.JobCancelled

	rows := make([]sessionRow, 0, len(snapshot.ThisWeekRows))
	for _, row := range snapshot.ThisWeekRows {
		rows = append(rows, sessionRow{
			Course:     row.CourseName,
			ClassLabel: row.ClassLabel,
			Subgroup:   row.Subgroup,
			Teacher:    row.TeacherName,
			Time:       fmt.Sprintf("%s-%s", row.Start.Format("15:04"), row.End.Format("15:04")),
			Type:       row.Type,
		})
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Percent:             snapshot.Percent,
		State:               string(snapshot.State),
		Message:             statusMessage(snapshot),
		Detail:              snapshot.FailureMessage,
		ETASeconds:          snapshot.ETA.Seconds(),
		CurrentWeekLabel:    snapshot.CurrentWeek,
		CurrentWeekSessions: rows,
		Finished:            finished,
	})
}

func statusMessage(s domain.Snapshot) string {
	switch s.State {
	case domain.JobSuccess:
		return fmt.Sprintf("%d of %d sessions placed", s.Placed, s.TotalExpected)
	case domain.JobFailed:
		return "generation failed"
	case domain.JobCancelled:
		return "generation cancelled"
	case domain.JobRunning:
		return fmt.Sprintf("placing week %s", s.CurrentWeek)
	default:
		return "queued"
	}
}
