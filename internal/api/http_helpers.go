// ABOUTME: Shared HTTP helpers for JSON errors, binding, and route parsing.
// ABOUTME: Maps service errors onto status codes.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fitness/internal/models"
	"github.com/harperreed/fitness/internal/storage"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// respondStoreError maps a service error onto a status code.
func (a *API) respondStoreError(c *gin.Context, op string, err error) {
	var sqliteErr *sqlite.Error
	switch {
	case errors.Is(err, models.ErrValidation):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrSessionFinished):
		respondError(c, http.StatusConflict, err.Error())
	case errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT:
		respondError(c, http.StatusConflict, fmt.Sprintf("%s: constraint violated", op))
	default:
		a.logger.Error(op, "err", err)
		respondError(c, http.StatusInternalServerError, op+" failed")
	}
}

func notFound(c *gin.Context, what, id string) {
	respondError(c, http.StatusNotFound, fmt.Sprintf("%s not found: %s", what, id))
}

// parseSetKey reads the composite set key from the route.
func parseSetKey(c *gin.Context) (models.SetKey, error) {
	n, err := strconv.Atoi(c.Param("set_number"))
	if err != nil {
		return models.SetKey{}, fmt.Errorf("invalid set_number %q", c.Param("set_number"))
	}
	return models.SetKey{SessionID: c.Param("id"), ExerciseID: c.Param("exercise_id"), SetNumber: n}, nil
}

// queryTime parses an optional RFC 3339 or YYYY-MM-DD query parameter.
func queryTime(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, _, err := models.ParseDateTime(raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &t, nil
}
