// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"meddir/internal/adapters/observability"
	"meddir/internal/app"
	"meddir/internal/domain"
	"meddir/internal/listing"
)

const maxBody = 1 << 20

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService
	A *app.AuthService

	// ReviewLimit throttles review submissions; nil disables it.
	ReviewLimit func(http.Handler) http.Handler
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/institutions", h.listInstitutions)
		r.Get("/institutions/{id}", h.getInstitution)
		r.Get("/institutions/{id}/reviews", h.listReviews)
		r.With(optional(h.ReviewLimit)).Post("/institutions/{id}/reviews", h.submitReview)
		r.Get("/news", h.listNews)
		r.Get("/stats", h.stats)
		r.Get("/filters", h.filters)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/register", h.register)
			r.Post("/login", h.login)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin(h.A))
				r.Post("/institutions", h.addInstitution)
				r.Patch("/institutions/{id}", h.updateInstitution)
				r.Delete("/institutions/{id}", h.deleteInstitution)
				r.Get("/reviews", h.moderationQueue)
				r.Post("/reviews/{id}/approve", h.approveReview)
				r.Delete("/reviews/{id}", h.deleteReview)
				r.Post("/news", h.addNews)
				r.Delete("/news/{id}", h.deleteNews)
				r.Get("/stats", h.adminStats)
			})
		})
	})
}

func optional(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}

// ---- response helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain error types onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	var ae *domain.AppError
	detail := ""
	if errors.As(err, &ae) {
		detail = ae.Message
	}
	switch domain.TypeOf(err) {
	case domain.ErrorTypeNotFound:
		writeProblem(w, http.StatusNotFound, "Not Found", detail)
	case domain.ErrorTypeValidation:
		writeProblem(w, http.StatusBadRequest, "Validation Failed", detail)
	case domain.ErrorTypeUnauthorized:
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", detail)
	case domain.ErrorTypeConflict:
		writeProblem(w, http.StatusConflict, "Conflict", detail)
	default:
		log.Error().Err(err).Str("kind", observability.LabelErr(err)).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
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

// writeCacheable writes v with a weak ETag, answering 304 when the client already has it.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	return true
}

// ---- public ----

type listResponse struct {
	listing.Result
	Filter        domain.FilterSpec `json:"filter"`
	ActiveFilters int               `json:"activeFilters"`
}

// parseFilter reads the listing query string. Unknown enum values are
// normalized later; malformed numbers and booleans are rejected.
func parseFilter(r *http.Request) (domain.FilterSpec, int, int, error) {
	q := r.URL.Query()
	spec := domain.FilterSpec{
		Query:          q.Get("q"),
		PriceType:      domain.PriceMode(q.Get("price")),
		Specialization: q.Get("specialization"),
		District:       q.Get("district"),
		SortBy:         domain.SortMode(q.Get("sort")),
	}
	if v := q.Get("workingNow"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return spec, 0, 0, domain.Validation("workingNow must be a boolean")
		}
		spec.WorkingNow = b
	}
	page, err := positiveInt(q.Get("page"), 1, 0)
	if err != nil {
		return spec, 0, 0, domain.Validation("page must be a positive integer")
	}
	size, err := positiveInt(q.Get("pageSize"), 0, 100)
	if err != nil {
		return spec, 0, 0, domain.Validation("pageSize must be an integer between 1 and 100")
	}
	return spec.Normalize(), page, size, nil
}

func positiveInt(s string, def, max int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || (max > 0 && n > max) {
		return 0, errors.New("out of range")
	}
	return n, nil
}

func (h *Handlers) listInstitutions(w http.ResponseWriter, r *http.Request) {
	spec, page, size, err := parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := h.Q.List(r.Context(), spec, page, size)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, listResponse{Result: res, Filter: spec, ActiveFilters: spec.ActiveCount()})
}

func (h *Handlers) getInstitution(w http.ResponseWriter, r *http.Request) {
	inst, err := h.Q.GetInstitution(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, inst)
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) submitReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Q.GetInstitution(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	var in domain.NewReview
	if !decode(w, r, &in) {
		return
	}
	in.InstitutionID = id
	rv, err := h.C.SubmitReview(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, rv)
}

func (h *Handlers) listNews(w http.ResponseWriter, r *http.Request) {
	writeCacheable(w, r, h.Q.ListNews(r.Context()))
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	writeCacheable(w, r, h.Q.Stats(r.Context()))
}

type filterOptions struct {
	Specializations []string                `json:"specializations"`
	Districts       []domain.DistrictOption `json:"districts"`
	PriceModes      []domain.PriceMode      `json:"priceModes"`
	SortModes       []domain.SortMode       `json:"sortModes"`
	Default         domain.FilterSpec       `json:"default"`
}

func (h *Handlers) filters(w http.ResponseWriter, r *http.Request) {
	writeCacheable(w, r, filterOptions{
		Specializations: domain.Specializations,
		Districts:       domain.Districts,
		PriceModes:      []domain.PriceMode{domain.PriceAll, domain.PriceFree, domain.PricePaid},
		SortModes:       []domain.SortMode{domain.SortAlphabetical, domain.SortPrice, domain.SortRating},
		Default:         domain.DefaultFilter(),
	})
}

// ---- admin ----

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in app.Registration
	if !decode(w, r, &in) {
		return
	}
	adm, err := h.A.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, adm)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if !decode(w, r, &in) {
		return
	}
	sess, err := h.A.Login(r.Context(), strings.TrimSpace(in.Username), in.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handlers) addInstitution(w http.ResponseWriter, r *http.Request) {
	var in domain.Institution
	if !decode(w, r, &in) {
		return
	}
	inst, err := h.C.AddInstitution(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/institutions/"+inst.ID)
	writeJSON(w, http.StatusCreated, inst)
}

func (h *Handlers) updateInstitution(w http.ResponseWriter, r *http.Request) {
	var patch domain.InstitutionPatch
	if !decode(w, r, &patch) {
		return
	}
	inst, err := h.C.UpdateInstitution(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (h *Handlers) deleteInstitution(w http.ResponseWriter, r *http.Request) {
	if err := h.C.DeleteInstitution(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) moderationQueue(w http.ResponseWriter, r *http.Request) {
	status := app.ReviewStatus(r.URL.Query().Get("status"))
	switch status {
	case "":
		status = app.StatusPending
	case app.StatusPending, app.StatusApproved, app.StatusAll:
	default:
		writeProblem(w, http.StatusBadRequest, "Validation Failed", "status must be pending, approved or all")
		return
	}
	writeJSON(w, http.StatusOK, h.Q.ModerationQueue(r.Context(), status))
}

func (h *Handlers) approveReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.C.ApproveReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	log.Info().Str("admin", AdminFrom(r.Context())).Str("review", rv.ID).Msg("moderation")
	writeJSON(w, http.StatusOK, rv)
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.C.DeleteReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) addNews(w http.ResponseWriter, r *http.Request) {
	var in domain.News
	if !decode(w, r, &in) {
		return
	}
	n, err := h.C.AddNews(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *Handlers) deleteNews(w http.ResponseWriter, r *http.Request) {
	if err := h.C.DeleteNews(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) adminStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Q.AdminStats(r.Context()))
}
