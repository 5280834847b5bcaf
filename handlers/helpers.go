package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"quizzical/middleware"
	"quizzical/services"

	"github.com/gin-gonic/gin"
)

// respondError translates a classified service error into a status code.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Request failed"

	switch {
	case errors.Is(err, services.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrTransient):
		status, message = http.StatusServiceUnavailable, "Storage temporarily unavailable"
	}

	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s %s failed: %v", c.GetString(middleware.RequestIDKey), c.Request.Method, c.FullPath(), err)
	}

	body := gin.H{"error": message}
	var ingestErr *services.IngestError
	if errors.As(err, &ingestErr) {
		body["stage"] = ingestErr.Stage
	}
	c.JSON(status, body)
}

// currentUser returns the caller's id and whether one was resolved.
func currentUser(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// optionalUser returns nil for anonymous callers.
func optionalUser(c *gin.Context) *uint {
	if id, ok := currentUser(c); ok {
		return &id
	}
	return nil
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// parseIntQuery returns defaultValue when key is absent.
func parseIntQuery(c *gin.Context, key string, defaultValue int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be an integer"})
		return 0, false
	}
	return value, true
}
