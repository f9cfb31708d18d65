package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/redec10/river-monitor/internal/adapter/form"
	"github.com/redec10/river-monitor/internal/session"
)

type ctxKey int

const ctxKeyToken ctxKey = iota

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adminSecret)) != 1 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}

	token, err := s.deps.Sessions.Login()
	if err != nil {
		s.deps.Logger.Error("session creation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "login failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.deps.Sessions.Logout(tokenFrom(r.Context()))
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// requireSession authenticates the bearer token against the session store.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || !s.deps.Sessions.Active(token) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyToken, token)))
	})
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(ctxKeyToken).(string)
	return token
}

type submissionEntry struct {
	RiverID        string   `json:"river_id" validate:"required"`
	MunicipalityID string   `json:"municipality_id" validate:"required"`
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string   `json:"time" validate:"required,datetime=15:04"`
	Level          *float64 `json:"level"`
}

type submissionRequest struct {
	// Confirm acknowledges that blank entries (no level) will be submitted
	// as "no reading recorded". Required once the batch contains any.
	Confirm bool              `json:"confirm"`
	Entries []submissionEntry `json:"entries" validate:"required,min=1,dive"`
}

type submissionResponse struct {
	State     session.SubmissionState `json:"state"`
	Submitted int                     `json:"submitted"`
	Failed    int                     `json:"failed"`
	Results   []form.Result           `json:"results"`
}

// handleSubmitReadings runs the submission workflow: a batch with blank
// entries parks in awaiting_confirmation until resent with confirm=true;
// otherwise every entry is posted individually and per-entry outcomes are
// returned so the caller can retry only the failed subset.
func (s *Server) handleSubmitReadings(w http.ResponseWriter, r *http.Request) {
	token := tokenFrom(r.Context())

	var req submissionRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	blanks := 0
	for _, e := range req.Entries {
		if e.Level == nil {
			blanks++
		}
	}

	state := s.deps.Sessions.Submission(token)
	if state == session.StateSubmitting {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "a submission is already in flight"})
		return
	}

	if blanks > 0 && !req.Confirm {
		if state != session.StateAwaitingConfirmation {
			if err := s.deps.Sessions.Transition(token, state, session.StateAwaitingConfirmation); err != nil {
				writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusConflict, map[string]any{
			"state":         session.StateAwaitingConfirmation,
			"blank_entries": blanks,
			"error":         "batch contains blank readings; resend with confirm=true to submit them as empty",
		})
		return
	}

	if err := s.deps.Sessions.Transition(token, state, session.StateSubmitting); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}

	entries := make([]form.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, form.Entry{
			RiverID:        e.RiverID,
			MunicipalityID: e.MunicipalityID,
			Date:           e.Date,
			Time:           e.Time,
			Level:          e.Level,
		})
	}

	results := s.deps.Submitter.SubmitBatch(r.Context(), entries)

	if err := s.deps.Sessions.Transition(token, session.StateSubmitting, session.StateDone); err != nil {
		// The batch already went out; log and report the results anyway.
		s.deps.Logger.Warn("submission state out of sync", "error", err)
	}

	resp := submissionResponse{State: session.StateDone, Results: results}
	for _, res := range results {
		if res.OK() {
			resp.Submitted++
		} else {
			resp.Failed++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeAndValidate decodes a JSON body into dst and runs struct
// validation, answering 400 on either failure.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "validation failed: " + err.Error()})
		return false
	}
	return true
}
