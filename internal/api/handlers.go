package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"GridScout/internal/advisor"
	"GridScout/internal/collector"
	"GridScout/internal/model"
	"GridScout/internal/strategy"

	"github.com/gin-gonic/gin"
)

const defaultEvaluationLimit = 20

type analyzeRequest struct {
	Code       string            `json:"code" binding:"required"`
	Frequency  string            `json:"frequency"`
	Days       int               `json:"days"`
	GridParams *model.GridParams `json:"grid_params"`
	Capital    float64           `json:"capital"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleFundInfo(c *gin.Context) {
	info, err := s.data.FundInfo(c.Request.Context(), c.Param("code"))
	if err != nil {
		s.writeError(c, c.Param("code"), err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleHistory(c *gin.Context) {
	days, ok := queryInt(c, "days")
	if !ok {
		return
	}
	series, err := s.data.History(c.Request.Context(), c.Param("code"), days)
	if err != nil {
		s.writeError(c, c.Param("code"), err)
		return
	}
	c.JSON(http.StatusOK, series)
}

func (s *Server) handleAnalysis(c *gin.Context) {
	days, ok := queryInt(c, "days")
	if !ok {
		return
	}
	analysis, err := s.advisor.Characterize(c.Request.Context(), c.Param("code"), days)
	if err != nil {
		s.writeError(c, c.Param("code"), err)
		return
	}
	if analysis.Failed() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":       analysis.Error,
			"data_points": analysis.DataPoints,
		})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var body analyzeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if strings.TrimSpace(body.Code) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	report, err := s.advisor.Assess(c.Request.Context(), advisor.Request{
		Code:      body.Code,
		Frequency: model.Frequency(body.Frequency),
		Days:      body.Days,
		Params:    body.GridParams,
		Capital:   body.Capital,
	})
	if err != nil {
		s.writeError(c, body.Code, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleEvaluations(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	if limit == 0 {
		limit = defaultEvaluationLimit
	}
	records, err := s.advisor.RecentEvaluations(c.Param("code"), limit)
	if err != nil {
		s.writeError(c, c.Param("code"), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": c.Param("code"), "evaluations": records})
}

// queryInt reads an optional non-negative integer query parameter. On a bad
// value it writes a 400 and returns false.
func queryInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return v, true
}

func (s *Server) writeError(c *gin.Context, code string, err error) {
	switch {
	case errors.Is(err, model.ErrUnknownFrequency), errors.Is(err, strategy.ErrInvalidCapital):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, collector.ErrDataUnavailable):
		c.JSON(http.StatusNotFound, gin.H{"error": "data unavailable for " + code})
	default:
		s.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
