package coach

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"careercoach-backend/internal/extract"
	"careercoach-backend/internal/llm"
	"careercoach-backend/internal/prompt"
	"careercoach-backend/internal/shared/server/respond"
	"careercoach-backend/internal/shared/util"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires the coach HTTP surface to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches coach routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/coach/features", h.features)
	rg.POST("/coach/:feature", h.run)
}

type featureInfo struct {
	Kind           string   `json:"kind"`
	RequiredFields []string `json:"requiredFields"`
	OptionalFields []string `json:"optionalFields"`
	AcceptsUpload  bool     `json:"acceptsUpload"`
}

func (h *Handler) features(c *gin.Context) {
	out := make([]featureInfo, 0, len(prompt.Kinds()))
	for _, kind := range prompt.Kinds() {
		required, optional := prompt.Requirements(kind)
		out = append(out, featureInfo{
			Kind:           string(kind),
			RequiredFields: required,
			OptionalFields: optional,
			AcceptsUpload:  kind == prompt.KindResumeAnalysis,
		})
	}
	respond.OK(c, gin.H{"features": out})
}

type runRequest struct {
	Fields map[string]string `json:"fields"`
}

type runResponse struct {
	Feature string `json:"feature"`
	Text    string `json:"text"`
}

func (h *Handler) run(c *gin.Context) {
	kind, ok := prompt.ParseKind(c.Param("feature"))
	if !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown feature", nil)
		return
	}

	fields, doc, ok := parseRunInput(c)
	if !ok {
		return
	}

	text, err := h.Svc.RunFeature(c.Request.Context(), kind, fields, doc)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.Set("feature", string(kind))
	respond.OK(c, runResponse{Feature: string(kind), Text: text})
}

func parseRunInput(c *gin.Context) (map[string]string, *Document, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var req runRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return nil, nil, false
		}
		return req.Fields, nil, true
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart form", nil)
		return nil, nil, false
	}

	fields := make(map[string]string, len(form.Value))
	for name, vals := range form.Value {
		if len(vals) > 0 {
			fields[name] = vals[0]
		}
	}

	var doc *Document
	if headers := form.File["file"]; len(headers) > 0 {
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return nil, nil, false
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return nil, nil, false
		}
		doc = &Document{
			Data:     data,
			MimeType: fh.Header.Get("Content-Type"),
			FileName: util.CleanFileName(fh.Filename),
		}
	}

	return fields, doc, true
}

// writeFailure maps the error taxonomy onto HTTP statuses. Authentication
// here means the upstream credential was rejected, not caller auth, so it
// surfaces as a bad gateway rather than 401.
func writeFailure(c *gin.Context, err error) {
	var missing *prompt.MissingFieldError
	var rateErr *llm.RateLimitError

	switch {
	case errors.As(err, &missing):
		respond.Error(c, http.StatusBadRequest, "missing_field", missing.Error(), gin.H{"field": missing.Field})
	case errors.Is(err, extract.ErrUnreadableDocument):
		respond.Error(c, http.StatusBadRequest, "unreadable_document", err.Error(), nil)
	case errors.As(err, &rateErr):
		if rateErr.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(rateErr.RetryAfter.Seconds())))
		}
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", err.Error(), nil)
	case errors.Is(err, llm.ErrAuthentication):
		respond.Error(c, http.StatusBadGateway, "authentication", err.Error(), nil)
	case errors.Is(err, llm.ErrTransientNetwork):
		respond.Error(c, http.StatusGatewayTimeout, "transient_network", err.Error(), nil)
	case errors.Is(err, llm.ErrUpstream):
		respond.Error(c, http.StatusBadGateway, "upstream", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", "unexpected server error", nil)
	}
}
