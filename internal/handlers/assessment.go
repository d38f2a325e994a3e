package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veracomply/veracomply-backend/internal/repos"
	"github.com/veracomply/veracomply-backend/internal/requestdata"
	"github.com/veracomply/veracomply-backend/internal/services"
)

type AssessmentHandler struct {
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(assessmentService services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

func (ah *AssessmentHandler) callerScope(c *gin.Context) (assessmentID, organizationID uuid.UUID, ok bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing identity"))
		return uuid.Nil, uuid.Nil, false
	}
	assessmentID, err := uuid.Parse(c.Param("assessment_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", errors.New("invalid assessment id"))
		return uuid.Nil, uuid.Nil, false
	}
	return assessmentID, rd.OrganizationID, true
}

func (ah *AssessmentHandler) Start(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing identity"))
		return
	}
	var req struct {
		TemplateID uuid.UUID `json:"template_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.TemplateID == uuid.Nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("template_id required"))
		return
	}
	assessment, err := ah.assessmentService.Start(c.Request.Context(), rd.OrganizationID, req.TemplateID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "start_failed", err)
		return
	}
	RespondOK(c, assessment)
}

func (ah *AssessmentHandler) GetByID(c *gin.Context) {
	assessmentID, organizationID, ok := ah.callerScope(c)
	if !ok {
		return
	}
	assessment, err := ah.assessmentService.GetByID(c.Request.Context(), assessmentID, organizationID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	RespondOK(c, assessment)
}

func (ah *AssessmentHandler) SubmitAnswer(c *gin.Context) {
	assessmentID, organizationID, ok := ah.callerScope(c)
	if !ok {
		return
	}
	var req struct {
		QuestionID           uuid.UUID       `json:"question_id"`
		Value                json.RawMessage `json:"value"`
		EvidenceTier         string          `json:"evidence_tier"`
		SourceDocumentID     *uuid.UUID      `json:"source_document_id"`
		ExtractionConfidence *float64        `json:"extraction_confidence"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", errors.New("invalid request body"))
		return
	}
	answer, err := ah.assessmentService.SubmitAnswer(c.Request.Context(), assessmentID, organizationID, services.SubmitAnswerInput{
		QuestionID:           req.QuestionID,
		Value:                req.Value,
		EvidenceTier:         req.EvidenceTier,
		SourceDocumentID:     req.SourceDocumentID,
		ExtractionConfidence: req.ExtractionConfidence,
	})
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "submit_failed", err)
		return
	}
	RespondOK(c, answer)
}

func (ah *AssessmentHandler) ComputeScore(c *gin.Context) {
	assessmentID, organizationID, ok := ah.callerScope(c)
	if !ok {
		return
	}
	view, err := ah.assessmentService.ComputeScore(c.Request.Context(), assessmentID, organizationID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "score_failed", err)
		return
	}
	RespondOK(c, view)
}
