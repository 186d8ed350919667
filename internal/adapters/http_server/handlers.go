package httpserver

import (
	"crypto/sha1"
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_insights/internal/app"
	"review_insights/internal/domain"
)

type Handlers struct{ Q *app.QueryService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/categories", h.listCategories)
	s.mux.Get("/v1/apps", h.listApps)
	s.mux.Route("/v1/apps/{app}", func(r chi.Router) {
		r.Get("/insights", h.getInsights)
		r.Get("/topics", h.listTopics)
		r.Get("/ratings", h.listRatings)
		r.Get("/zones", h.listZones)
		r.Get("/sentiment", h.listSentiment)
		r.Get("/actions", h.listActions)
		r.Get("/sample", h.getSample)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeJSON answers with v, or 304 when the client already holds this version.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeCSV(w http.ResponseWriter, name string, header []string, rows [][]string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.csv"`)
	w.WriteHeader(http.StatusOK)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err == nil {
		_ = cw.WriteAll(rows)
	}
	if err := cw.Error(); err != nil {
		log.Error().Err(err).Str("table", name).Msg("failed to write csv")
	}
}

func wantsCSV(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), "csv")
}

// appParam reads the {app} path parameter, answering 400 when it is blank.
func appParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "app"))
	if id == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid app", "app id is required")
		return "", false
	}
	return id, true
}

// report loads the app's report or answers with a problem and returns false.
func (h *Handlers) report(w http.ResponseWriter, r *http.Request) (domain.Report, bool) {
	appID, ok := appParam(w, r)
	if !ok {
		return domain.Report{}, false
	}
	rep, err := h.Q.Report(r.Context(), appID)
	if err != nil {
		log.Error().Err(err).Str("app", appID).Msg("build report failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not build report")
		return domain.Report{}, false
	}
	return rep, true
}

func (h *Handlers) getInsights(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r)
	if !ok {
		return
	}
	if r.URL.Query().Get("reviews") == "false" {
		rep.Reviews = nil
	}
	writeJSON(w, r, rep)
}

func (h *Handlers) listTopics(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r)
	if !ok {
		return
	}
	if !wantsCSV(r) {
		writeJSON(w, r, rep.Topics)
		return
	}
	rows := make([][]string, 0, len(rep.Topics))
	for _, t := range rep.Topics {
		rows = append(rows, []string{
			t.Topic,
			strconv.FormatFloat(t.MeanSatisfaction, 'f', -1, 64),
			strconv.FormatFloat(t.MeanSignificance, 'f', -1, 64),
			strconv.Itoa(t.Volume),
			string(t.RepresentativeAction),
		})
	}
	writeCSV(w, "topics", []string{"topic", "mean_satisfaction", "mean_significance", "volume", "representative_action"}, rows)
}

func (h *Handlers) listRatings(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.report(w, r)
	if !ok {
		return
	}
	if !wantsCSV(r) {
		writeJSON(w, r, rep.Ratings)
		return
	}
	rows := make([][]string, 0, len(rep.Ratings))
	for _, b := range rep.Ratings {
		rows = append(rows, []string{strconv.Itoa(b.Rating), strconv.Itoa(b.Count), strconv.FormatFloat(b.Percent, 'f', 1, 64)})
	}
	writeCSV(w, "ratings", []string{"rating", "count", "percent"}, rows)
}

func (h *Handlers) listZones(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.report(w, r); ok {
		writeJSON(w, r, rep.Zones)
	}
}

func (h *Handlers) listSentiment(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.report(w, r); ok {
		writeJSON(w, r, rep.Sentiment)
	}
}

func (h *Handlers) listActions(w http.ResponseWriter, r *http.Request) {
	if rep, ok := h.report(w, r); ok {
		writeJSON(w, r, rep.Actions)
	}
}

func (h *Handlers) getSample(w http.ResponseWriter, r *http.Request) {
	appID, ok := appParam(w, r)
	if !ok {
		return
	}
	topic := strings.TrimSpace(r.URL.Query().Get("topic"))

	rv, err := h.Q.Sample(r.Context(), appID, topic)
	switch {
	case errors.Is(err, domain.ErrEmptySelection):
		writeProblem(w, http.StatusNotFound, "Not Found", "no reviews found in this category")
		return
	case err != nil:
		log.Error().Err(err).Str("app", appID).Msg("sample review failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not pick a sample")
		return
	}
	// samples are random; never let a client revalidate them
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rv); err != nil {
		log.Error().Err(err).Msg("failed to write sample body")
	}
}

func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, domain.DefaultCategories)
}

func (h *Handlers) listApps(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Q.ListApps(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list apps failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "could not list apps")
		return
	}
	writeJSON(w, r, apps)
}
