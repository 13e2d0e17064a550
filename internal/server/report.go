package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) PeriodReport(c *gin.Context) {
	anchor := strings.TrimSpace(c.Query("anchor"))
	if anchor == "" {
		anchor = s.clock.Now().Format("2006-01-02")
	}

	rep, err := s.reportSvc.Report(c.Request.Context(), anchor)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rep)
}
