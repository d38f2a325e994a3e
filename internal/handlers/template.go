package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veracomply/veracomply-backend/internal/repos"
	"github.com/veracomply/veracomply-backend/internal/scoring"
	"github.com/veracomply/veracomply-backend/internal/services"
	"github.com/veracomply/veracomply-backend/internal/types"
)

type TemplateHandler struct {
	templateService services.TemplateService
}

func NewTemplateHandler(templateService services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

func (th *TemplateHandler) CreateDraft(c *gin.Context) {
	var tpl types.Template
	if err := c.ShouldBindJSON(&tpl); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	created, err := th.templateService.CreateDraft(c.Request.Context(), &tpl)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "create_failed", err)
		return
	}
	RespondOK(c, created)
}

func (th *TemplateHandler) Publish(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("template_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid template id"))
		return
	}
	if err := th.templateService.Publish(c.Request.Context(), templateID); err != nil {
		var cfgErr *scoring.ConfigurationError
		switch {
		case errors.As(err, &cfgErr):
			RespondError(c, http.StatusUnprocessableEntity, "invalid_weights", err)
		case errors.Is(err, repos.ErrNotFound):
			RespondError(c, http.StatusNotFound, "not_found", err)
		default:
			RespondError(c, http.StatusUnprocessableEntity, "publish_failed", err)
		}
		return
	}
	RespondOK(c, gin.H{"status": types.TemplateStatusPublished})
}

func (th *TemplateHandler) GetByID(c *gin.Context) {
	templateID, err := uuid.Parse(c.Param("template_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid template id"))
		return
	}
	tpl, err := th.templateService.GetByID(c.Request.Context(), templateID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	RespondOK(c, tpl)
}

func (th *TemplateHandler) ListPublished(c *gin.Context) {
	list, err := th.templateService.ListPublished(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, list)
}
