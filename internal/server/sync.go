package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerSync drains the pending queue on demand. The drain itself
// never fails; whatever could not be delivered stays queued.
func (s *Server) TriggerSync(c *gin.Context) {
	s.syncEngine.SyncPendingLogs(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// SignOut discards local client state. Queued records belong to the
// session being closed and are dropped with it.
func (s *Server) SignOut(c *gin.Context) {
	s.queue.Clear()
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}
