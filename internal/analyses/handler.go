package analyses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/JaimeStill/color-lab/internal/uploads"
	"github.com/JaimeStill/color-lab/pkg/handlers"
	"github.com/JaimeStill/color-lab/pkg/pagination"
	"github.com/JaimeStill/color-lab/pkg/routes"
)

// multipartOverhead bounds the non-file parts of an upload request.
const multipartOverhead = 1 << 20

// Handler provides HTTP endpoints for analysis operations.
type Handler struct {
	sys           System
	identity      IdentityResolver
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
	waitTimeout   time.Duration
}

// NewHandler creates an analysis handler. waitTimeout bounds how long an
// upload with ?wait=true blocks for its result.
func NewHandler(
	sys System,
	identity IdentityResolver,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
	waitTimeout time.Duration,
) *Handler {
	return &Handler{
		sys:           sys,
		identity:      identity,
		logger:        logger.With("handler", "analyses"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
		waitTimeout:   waitTimeout,
	}
}

// Routes returns the analysis endpoint route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/analyses",
		Tags:        []string{"Analyses"},
		Description: "Photo upload and color type analysis",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/latest", Handler: h.Latest},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
		Children: []routes.Group{
			{
				Prefix:      "/stats",
				Tags:        []string{"Statistics"},
				Description: "Aggregate analysis statistics",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/categories", Handler: h.CategoryStats},
					{Method: "GET", Pattern: "/confidence", Handler: h.ConfidenceStats},
					{Method: "GET", Pattern: "/period", Handler: h.PeriodStats},
					{Method: "GET", Pattern: "/monthly", Handler: h.MonthlyStats},
					{Method: "GET", Pattern: "/top", Handler: h.Top},
					{Method: "GET", Pattern: "/me", Handler: h.MyStats},
				},
			},
		},
	}
}

// SubmissionResponse is returned when an upload is accepted but not yet classified.
type SubmissionResponse struct {
	StoredFileName string `json:"stored_file_name"`
	Status         string `json:"status"`
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}

	file, err := h.readUpload(w, r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	sub, err := h.sys.Submit(r.Context(), identity, file)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		ctx, cancel := context.WithTimeout(r.Context(), h.waitTimeout)
		defer cancel()

		a, err := sub.Wait(ctx)
		switch {
		case err == nil:
			handlers.RespondJSON(w, http.StatusCreated, a)
			return
		case !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled):
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
	}

	handlers.RespondJSON(w, http.StatusAccepted, SubmissionResponse{
		StoredFileName: sub.StoredFileName,
		Status:         string(sub.Status()),
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}

	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.Page(r.Context(), identity, page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}

	a, err := h.sys.Latest(r.Context(), identity)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if a == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}

	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	a, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if a.UserID != identity.ID {
		handlers.RespondError(w, h.logger, http.StatusForbidden, ErrForbidden)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, a)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}

	id, err := parseID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.Delete(r.Context(), id, identity); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CategoryStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.identify(w, r); !ok {
		return
	}

	counts, err := h.sys.CategoryCounts(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, counts)
}

func (h *Handler) ConfidenceStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.identify(w, r); !ok {
		return
	}

	avg, err := h.sys.AverageConfidence(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, ConfidenceStats{Average: avg})
}

func (h *Handler) PeriodStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.identify(w, r); !ok {
		return
	}

	from, err := parseTime(r.URL.Query(), "from")
	if err == nil && from == nil {
		err = fmt.Errorf("%w: from is required", ErrInvalidQuery)
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	to, err := parseTime(r.URL.Query(), "to")
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if to == nil {
		now := time.Now().UTC()
		to = &now
	}

	n, err := h.sys.CountByPeriod(r.Context(), *from, *to)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, PeriodStats{From: *from, To: *to, Count: n})
}

func (h *Handler) MonthlyStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.identify(w, r); !ok {
		return
	}

	since, err := parseTime(r.URL.Query(), "since")
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	if since == nil {
		now := time.Now().UTC()
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
		since = &start
	}

	counts, err := h.sys.MonthlyCounts(r.Context(), *since)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, counts)
}

func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}

	minConfidence := ReliableThreshold
	if v := r.URL.Query().Get("min_confidence"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			err = fmt.Errorf("%w: min_confidence must be a number", ErrInvalidQuery)
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		minConfidence = n
	}
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.TopByConfidence(r.Context(), identity, minConfidence, page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) MyStats(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identify(w, r)
	if !ok {
		return
	}

	stats, err := h.sys.UserStats(r.Context(), identity)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stats)
}

func (h *Handler) identify(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	identity, err := h.identity.Resolve(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return Identity{}, false
	}
	return identity, true
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (uploads.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			// the body was cut off at the limit; only the declared length is known
			return uploads.File{}, &uploads.SizeExceededError{Actual: max(r.ContentLength, 0), Max: h.maxUploadSize}
		}
		return uploads.File{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return uploads.File{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		return uploads.File{}, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	return uploads.File{
		Data:        data,
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: detectContentType(header.Header.Get("Content-Type"), data),
	}, nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: id must be a positive integer", ErrInvalidQuery)
	}
	return id, nil
}

func detectContentType(header string, data []byte) string {
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}
