package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fieldops/metas/internal/activity"
	"github.com/fieldops/metas/internal/overtime"
	remotedomain "github.com/fieldops/metas/internal/remote/domain"
	reportdomain "github.com/fieldops/metas/internal/report/domain"
	submissiondomain "github.com/fieldops/metas/internal/submission/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type submitActivityRequest struct {
	DateISO     string               `json:"dateISO" binding:"required"`
	OSNumber    string               `json:"osNumber"`
	ServiceType activity.ServiceCode `json:"serviceType" binding:"required"`
	Complexity  activity.Complexity  `json:"complexity"`
	Notes       string               `json:"notes"`
}

func (s *Server) SubmitActivity(c *gin.Context) {
	var req submitActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, remotedomain.ErrInvalidLog)
		return
	}

	record := activity.Activity{
		ID:          uuid.NewString(),
		DateISO:     req.DateISO,
		OSNumber:    req.OSNumber,
		ServiceCode: req.ServiceType,
		Complexity:  req.Complexity,
		Points:      activity.ComputePoints(req.ServiceType, req.Complexity),
		Notes:       req.Notes,
	}

	payload, err := json.Marshal(record)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.submissionSvc.Submit(c.Request.Context(), submissiondomain.SubmitRequest{
		Kind:          remotedomain.LogKindActivity,
		PointsAwarded: record.Points,
		Payload:       payload,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      result.Status,
		"client_uuid": result.ClientID,
		"activity":    record,
	})
}

type submitOvertimeRequest struct {
	DateISO  string        `json:"dateISO" binding:"required"`
	TimeHHMM string        `json:"timeHHmm" binding:"required"`
	Type     overtime.Type `json:"type" binding:"required"`
	Notes    string        `json:"notes"`
}

func (s *Server) SubmitOvertime(c *gin.Context) {
	var req submitOvertimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, remotedomain.ErrInvalidLog)
		return
	}
	if req.Type != overtime.TypeStart && req.Type != overtime.TypeEnd {
		AbortWithError(c, remotedomain.ErrInvalidLog)
		return
	}

	record := overtime.Log{
		ID:       uuid.NewString(),
		DateISO:  req.DateISO,
		TimeHHMM: req.TimeHHMM,
		Type:     req.Type,
		Notes:    req.Notes,
	}

	// Pairing runs before submission so the END carries its duration.
	// Existing events come from the current period; offline the set is
	// empty and the END simply stays unpaired.
	record = overtime.Pair(record, s.openOvertime(c, record.DateISO))

	payload, err := json.Marshal(record)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.submissionSvc.Submit(c.Request.Context(), submissiondomain.SubmitRequest{
		Kind:    remotedomain.LogKindOvertime,
		Payload: payload,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      result.Status,
		"client_uuid": result.ClientID,
		"overtime":    record,
	})
}

// ListLogs returns the caller's delivered log rows for a date window.
// Absent bounds default to the current evaluation cycle.
func (s *Server) ListLogs(c *gin.Context) {
	ctx := c.Request.Context()

	principal, err := s.store.CurrentPrincipal(ctx)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if principal == nil {
		AbortWithError(c, remotedomain.ErrNotAuthenticated)
		return
	}

	from, to, err := s.listRange(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	rows, err := s.store.ListLogs(ctx, principal.ID, from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from": from.Format(dateLayout),
		"to":   to.Format(dateLayout),
		"logs": rows,
	})
}

const dateLayout = "2006-01-02"

func (s *Server) listRange(c *gin.Context) (time.Time, time.Time, error) {
	period, err := reportdomain.PeriodFromAnchor(s.clock.Now().Format(dateLayout))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, to := period.Start, period.End

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidRange
		}
		from = parsed
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, errInvalidRange
		}
		// Inclusive end of day.
		to = parsed.Add(24*time.Hour - time.Second)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errInvalidRange
	}
	return from, to, nil
}

func (s *Server) openOvertime(c *gin.Context, anchorISO string) []*overtime.Log {
	rep, err := s.reportSvc.Report(c.Request.Context(), anchorISO)
	if err != nil {
		s.log.Warn("pairing context unavailable", zap.Error(err))
		return nil
	}
	// Hydrated rows arrive newest first; pairing expects insertion order.
	existing := make([]*overtime.Log, 0, len(rep.Overtime))
	for i := len(rep.Overtime) - 1; i >= 0; i-- {
		existing = append(existing, &rep.Overtime[i])
	}
	return existing
}
