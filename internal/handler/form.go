package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"mbs-pricing-ui/internal/form"
	"mbs-pricing-ui/internal/model"
	"mbs-pricing-ui/internal/render"
	"mbs-pricing-ui/internal/service"
)

// FormHandler handles the pricing form page and its JSON endpoints
type FormHandler struct {
	pricingService *service.PricingService
	templates      *template.Template
	basePath       string
	logger         zerolog.Logger
}

// NewFormHandler creates a new form handler
func NewFormHandler(pricingService *service.PricingService, templates *template.Template, basePath string, logger zerolog.Logger) *FormHandler {
	return &FormHandler{
		pricingService: pricingService,
		templates:      templates,
		basePath:       basePath,
		logger:         logger,
	}
}

// Index handles GET {base}/
func (h *FormHandler) Index(c *gin.Context) {
	state, err := h.pricingService.State(c.Request.Context(), SessionID(c))
	if err != nil {
		h.sessionError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := render.Page(&buf, h.templates, render.NewView(state, h.basePath)); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render page")
		c.String(http.StatusInternalServerError, "Error rendering page")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Submit handles POST {base}/ from the HTML form and redirects back to the page
func (h *FormHandler) Submit(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "Invalid form submission")
		return
	}

	values := make(map[string]string, len(model.Fields))
	for _, name := range model.Fields {
		if v, ok := c.Request.PostForm[name]; ok && len(v) > 0 {
			values[name] = v[0]
		}
	}

	if _, err := h.pricingService.SubmitForm(c.Request.Context(), SessionID(c), values); err != nil {
		h.sessionError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, render.PathPrefix(h.basePath))
}

// SetField handles POST {base}/fields/:name
func (h *FormHandler) SetField(c *gin.Context) {
	var req model.FieldUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	state, err := h.pricingService.SetField(c.Request.Context(), SessionID(c), c.Param("name"), req.Value)
	if errors.Is(err, form.ErrUnknownField) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown field: " + c.Param("name")})
		return
	}
	if err != nil {
		h.sessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, stateResponse(state))
}

// Predict handles POST {base}/predict, submitting the stored form
func (h *FormHandler) Predict(c *gin.Context) {
	state, err := h.pricingService.Submit(c.Request.Context(), SessionID(c))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, stateResponse(state))
}

// State handles GET {base}/state
func (h *FormHandler) State(c *gin.Context) {
	state, err := h.pricingService.State(c.Request.Context(), SessionID(c))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, stateResponse(state))
}

func (h *FormHandler) sessionError(c *gin.Context, err error) {
	h.logger.Error().Err(err).Str("session_id", SessionID(c)).Msg("Session storage failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Session storage unavailable"})
}

func stateResponse(state *form.State) model.StateResponse {
	view := render.NewView(state, "")
	return model.StateResponse{
		Request:     state.Request,
		Loading:     state.Loading,
		SubmitLabel: view.SubmitLabel,
		Result:      state.Result,
		Price:       view.Price,
		Error:       state.Error,
	}
}
