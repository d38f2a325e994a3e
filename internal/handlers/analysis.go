package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/veracomply/veracomply-backend/internal/repos"
	"github.com/veracomply/veracomply-backend/internal/requestdata"
	"github.com/veracomply/veracomply-backend/internal/services"
)

type AnalysisHandler struct {
	analysisService services.AnalysisService
}

func NewAnalysisHandler(analysisService services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

func (ah *AnalysisHandler) callerScope(c *gin.Context) (assessmentID, organizationID uuid.UUID, ok bool) {
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

func (ah *AnalysisHandler) GetGapAnalysis(c *gin.Context) {
	assessmentID, organizationID, ok := ah.callerScope(c)
	if !ok {
		return
	}
	gapList, err := ah.analysisService.GetGapAnalysis(c.Request.Context(), assessmentID, organizationID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "analysis_failed", err)
		return
	}
	RespondOK(c, gin.H{"assessmentId": assessmentID, "gaps": gapList})
}

func (ah *AnalysisHandler) GetStrategyMatrix(c *gin.Context) {
	assessmentID, organizationID, ok := ah.callerScope(c)
	if !ok {
		return
	}
	matrix, err := ah.analysisService.GetStrategyMatrix(c.Request.Context(), assessmentID, organizationID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "matrix_failed", err)
		return
	}
	RespondOK(c, matrix)
}
