package httpserver

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"

	"webhaak/pkg/response"
)

// listTriggers lists all projects with their triggers and fire URLs.
// @Summary List triggers
// @Description List all configured projects and their trigger URLs
// @Tags Admin
// @Param secret path string true "Admin secret key"
// @Produce json
// @Success 200 {object} map[string]trigger.ProjectInfo
// @Failure 404 {object} response.Resp
// @Router /admin/{secret}/list [get]
func (srv *HTTPServer) listTriggers(c *gin.Context) {
	if err := srv.security.ValidateSecret(c.Param("secret")); err != nil {
		// Wrong secrets get the same answer as unknown routes.
		response.NotFound(c, "page not found")
		return
	}
	c.JSON(http.StatusOK, srv.registry.List(srv.serverURL))
}

// generateAppKey hands out a fresh random key for use in the projects file.
// @Summary Generate app key
// @Description Generate a random application key
// @Tags Admin
// @Param secret path string true "Admin secret key"
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.Resp
// @Router /admin/{secret}/get_app_key [get]
func (srv *HTTPServer) generateAppKey(c *gin.Context) {
	if err := srv.security.ValidateSecret(c.Param("secret")); err != nil {
		response.NotFound(c, "page not found")
		return
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"app_key": hex.EncodeToString(buf)})
}
