package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"webhaak/pkg/response"
)

// Service identity served from the root route.
const (
	ServiceName    = "webhaak"
	ServiceVersion = "1.0.0"
)

// indexPage greets whoever finds the service root.
// @Summary Index
// @Description Service landing page
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]any
// @Router / [get]
func (srv *HTTPServer) indexPage(c *gin.Context) {
	response.OK(c, gin.H{
		"service": ServiceName,
		"version": ServiceVersion,
		"message": "Webhook service, see /swagger/index.html for the API",
	})
}

// monitor answers uptime probes with a bare OK.
// @Summary Monitor
// @Description Uptime probe endpoint
// @Tags Health
// @Produce plain
// @Success 200 {string} string "OK"
// @Router /monitor [get]
func (srv *HTTPServer) monitor(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
