// Package handlers contains the HTTP handlers for the TodoApp API.
package handlers

import (
	"net/http"
	"time"

	"github.com/todoapp/gobackend/internal/config"
	"github.com/todoapp/gobackend/internal/utils"
)

// HealthStatus is the payload returned by the health endpoint.
type HealthStatus struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
}

// VersionInfo is the payload returned by the version endpoint.
type VersionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// GenericHandler serves the health and version endpoints.
type GenericHandler struct {
	appConfig *config.AppSettings
	startedAt time.Time
}

// NewGenericHandler creates a new GenericHandler.
func NewGenericHandler(appConfig *config.AppSettings) *GenericHandler {
	return &GenericHandler{
		appConfig: appConfig,
		startedAt: time.Now(),
	}
}

// Health reports that the service is up.
func (h *GenericHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, HealthStatus{
		Status:      "ok",
		Environment: h.appConfig.Environment,
		Uptime:      time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Version reports the running build.
func (h *GenericHandler) Version(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, VersionInfo{
		Name:    h.appConfig.Name,
		Version: h.appConfig.Version,
	})
}

// NotFound handles requests for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	utils.NotFound(w, "The requested endpoint does not exist")
}

// MethodNotAllowed handles requests with unsupported methods.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.MethodNotAllowed(w)
}
