// ABOUTME: HTTP handlers for routines and their ordered exercise links.
// ABOUTME: Link replacement goes through UpdateExercises.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fitness/internal/models"
)

type routineRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name" binding:"required"`
	Description *string  `json:"description"`
	ExerciseIDs []string `json:"exercise_ids"`
}

type routineExercisesRequest struct {
	ExerciseIDs []string `json:"exercise_ids"`
}

// ListRoutines returns all routines, or those matching ?q=.
func (a *API) ListRoutines(c *gin.Context) {
	var (
		routines []*models.Routine
		err      error
	)
	if q := c.Query("q"); q != "" {
		routines, err = a.routines.SearchByName(c.Request.Context(), q)
	} else {
		routines, err = a.routines.GetAll(c.Request.Context())
	}
	if err != nil {
		a.respondStoreError(c, "list routines", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routines": routines})
}

// CreateRoutine creates a routine with its ordered exercise links.
func (a *API) CreateRoutine(c *gin.Context) {
	var req routineRequest
	if !bindJSON(c, &req) {
		return
	}

	r := models.NewRoutine(req.Name, req.ExerciseIDs...)
	r.ID = req.ID
	r.Description = req.Description
	created, err := a.routines.Create(c.Request.Context(), r)
	if err != nil {
		a.respondStoreError(c, "create routine", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetRoutine returns a routine with its full link configuration.
func (a *API) GetRoutine(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	r, err := a.routines.GetByID(ctx, id)
	if err != nil {
		a.respondStoreError(c, "get routine", err)
		return
	}
	if r == nil {
		notFound(c, "routine", id)
		return
	}
	links, err := a.routines.Links(ctx, id)
	if err != nil {
		a.respondStoreError(c, "get routine", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"routine": r, "links": links})
}

// UpdateRoutine applies a partial update to name and description.
func (a *API) UpdateRoutine(c *gin.Context) {
	id := c.Param("id")
	var req models.RoutineUpdate
	if !bindJSON(c, &req) {
		return
	}
	if !a.routineExists(c, id) {
		return
	}

	if err := a.routines.Update(c.Request.Context(), id, req); err != nil {
		a.respondStoreError(c, "update routine", err)
		return
	}
	a.GetRoutine(c)
}

// SetRoutineExercises replaces the routine's links with the given order.
func (a *API) SetRoutineExercises(c *gin.Context) {
	id := c.Param("id")
	var req routineExercisesRequest
	if !bindJSON(c, &req) {
		return
	}
	if !a.routineExists(c, id) {
		return
	}

	if err := a.routines.UpdateExercises(c.Request.Context(), id, req.ExerciseIDs); err != nil {
		a.respondStoreError(c, "update routine exercises", err)
		return
	}
	a.GetRoutine(c)
}

// DeleteRoutine removes a routine and its links.
func (a *API) DeleteRoutine(c *gin.Context) {
	if err := a.routines.Delete(c.Request.Context(), c.Param("id")); err != nil {
		a.respondStoreError(c, "delete routine", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) routineExists(c *gin.Context, id string) bool {
	r, err := a.routines.GetByID(c.Request.Context(), id)
	if err != nil {
		a.respondStoreError(c, "get routine", err)
		return false
	}
	if r == nil {
		notFound(c, "routine", id)
		return false
	}
	return true
}
