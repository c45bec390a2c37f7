// ABOUTME: HTTP handlers for sessions and their logged sets.
// ABOUTME: Sets are addressed by session, exercise, and set number.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fitness/internal/models"
)

type sessionRequest struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name" binding:"required"`
	RoutineID *string                  `json:"routine_id"`
	Notes     *string                  `json:"notes"`
	StartTime *time.Time               `json:"start_time"`
	EndTime   *time.Time               `json:"end_time"`
	Exercises []models.SessionExercise `json:"exercises"`
}

type finishRequest struct {
	EndTime *time.Time `json:"end_time"`
}

// ListSessions returns sessions newest first, optionally within ?from=&to=.
// A bare-date to covers that whole day.
func (a *API) ListSessions(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	ctx := c.Request.Context()

	var (
		sessions []*models.Session
		err      error
	)
	if from != "" || to != "" {
		start, end, rangeErr := models.ParseRange(from, to, a.now(), time.Local)
		if rangeErr != nil {
			respondError(c, http.StatusBadRequest, rangeErr.Error())
			return
		}
		sessions, err = a.sessions.GetByDateRange(ctx, start, end)
	} else {
		sessions, err = a.sessions.GetAll(ctx)
	}
	if err != nil {
		a.respondStoreError(c, "list sessions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// CreateSession stores a session with any sets already logged.
// A missing start_time means now.
func (a *API) CreateSession(c *gin.Context) {
	var req sessionRequest
	if !bindJSON(c, &req) {
		return
	}

	start := a.now()
	if req.StartTime != nil {
		start = *req.StartTime
	}
	s := models.NewSession(req.Name, start)
	s.ID = req.ID
	s.RoutineID = req.RoutineID
	s.Notes = req.Notes
	s.EndTime = req.EndTime

	created, err := a.sessions.Create(c.Request.Context(), s, req.Exercises)
	if err != nil {
		a.respondStoreError(c, "create session", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetActiveSession returns the unfinished session for ?day= (default today).
func (a *API) GetActiveSession(c *gin.Context) {
	day, err := queryTime(c, "day")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	when := a.now()
	if day != nil {
		when = *day
	}

	s, err := a.sessions.GetActiveSession(c.Request.Context(), when)
	if err != nil {
		a.respondStoreError(c, "get active session", err)
		return
	}
	if s == nil {
		notFound(c, "active session", when.Format("2006-01-02"))
		return
	}
	c.JSON(http.StatusOK, s)
}

// GetSession returns one session with its sets.
func (a *API) GetSession(c *gin.Context) {
	id := c.Param("id")
	s, err := a.sessions.GetByID(c.Request.Context(), id)
	if err != nil {
		a.respondStoreError(c, "get session", err)
		return
	}
	if s == nil {
		notFound(c, "session", id)
		return
	}
	c.JSON(http.StatusOK, s)
}

// UpdateSession applies a partial update.
func (a *API) UpdateSession(c *gin.Context) {
	id := c.Param("id")
	var req models.SessionUpdate
	if !bindJSON(c, &req) {
		return
	}
	if !a.sessionExists(c, id) {
		return
	}

	if err := a.sessions.Update(c.Request.Context(), id, req); err != nil {
		a.respondStoreError(c, "update session", err)
		return
	}
	a.GetSession(c)
}

// FinishSession stamps the end time, defaulting to now.
func (a *API) FinishSession(c *gin.Context) {
	id := c.Param("id")
	var req finishRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	end := a.now()
	if req.EndTime != nil {
		end = *req.EndTime
	}

	s, err := a.sessions.Finish(c.Request.Context(), id, end)
	if err != nil {
		a.respondStoreError(c, "finish session", err)
		return
	}
	if s == nil {
		notFound(c, "session", id)
		return
	}
	c.JSON(http.StatusOK, s)
}

// DeleteSession removes a session and its sets.
func (a *API) DeleteSession(c *gin.Context) {
	if err := a.sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		a.respondStoreError(c, "delete session", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddSet logs one set in the session.
func (a *API) AddSet(c *gin.Context) {
	id := c.Param("id")
	var req models.SessionExercise
	if !bindJSON(c, &req) {
		return
	}
	if !a.sessionExists(c, id) {
		return
	}

	set, err := a.sessions.AddExerciseToSession(c.Request.Context(), id, req)
	if err != nil {
		a.respondStoreError(c, "add set", err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

// UpdateSet applies a partial update to one set.
func (a *API) UpdateSet(c *gin.Context) {
	key, err := parseSetKey(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	var req models.SessionExerciseUpdate
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	if err := a.sessions.UpdateExercise(ctx, key, req); err != nil {
		a.respondStoreError(c, "update set", err)
		return
	}

	s, err := a.sessions.GetByID(ctx, key.SessionID)
	if err != nil {
		a.respondStoreError(c, "update set", err)
		return
	}
	if s != nil {
		for _, e := range s.Exercises {
			if e.Key() == key {
				c.JSON(http.StatusOK, e)
				return
			}
		}
	}
	notFound(c, "set", key.String())
}

// RemoveSet deletes one set.
func (a *API) RemoveSet(c *gin.Context) {
	key, err := parseSetKey(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.sessions.RemoveExercise(c.Request.Context(), key); err != nil {
		a.respondStoreError(c, "remove set", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) sessionExists(c *gin.Context, id string) bool {
	s, err := a.sessions.GetByID(c.Request.Context(), id)
	if err != nil {
		a.respondStoreError(c, "get session", err)
		return false
	}
	if s == nil {
		notFound(c, "session", id)
		return false
	}
	return true
}
