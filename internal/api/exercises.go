// ABOUTME: HTTP handlers for the exercise catalog.
// ABOUTME: Also serves the health check.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harperreed/fitness/internal/models"
)

type exerciseRequest struct {
	ID          string  `json:"id" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// Health reports that the server is up.
func (a *API) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListExercises returns all exercises, or those matching ?q= or ?category=.
func (a *API) ListExercises(c *gin.Context) {
	var (
		exercises []*models.Exercise
		err       error
	)
	switch {
	case c.Query("category") != "":
		exercises, err = a.exercises.GetByCategory(c.Request.Context(), c.Query("category"))
	case c.Query("q") != "":
		exercises, err = a.exercises.SearchByName(c.Request.Context(), c.Query("q"))
	default:
		exercises, err = a.exercises.GetAll(c.Request.Context())
	}
	if err != nil {
		a.respondStoreError(c, "list exercises", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": exercises})
}

// CreateExercise adds an exercise to the catalog.
func (a *API) CreateExercise(c *gin.Context) {
	var req exerciseRequest
	if !bindJSON(c, &req) {
		return
	}

	e := &models.Exercise{ID: req.ID, Name: req.Name, Category: req.Category, Description: req.Description}
	created, err := a.exercises.Create(c.Request.Context(), e)
	if err != nil {
		a.respondStoreError(c, "create exercise", err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetExercise returns one exercise.
func (a *API) GetExercise(c *gin.Context) {
	id := c.Param("id")
	e, err := a.exercises.GetByID(c.Request.Context(), id)
	if err != nil {
		a.respondStoreError(c, "get exercise", err)
		return
	}
	if e == nil {
		notFound(c, "exercise", id)
		return
	}
	c.JSON(http.StatusOK, e)
}

// UpdateExercise applies a partial update and returns the stored exercise.
func (a *API) UpdateExercise(c *gin.Context) {
	id := c.Param("id")
	var req models.ExerciseUpdate
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	existing, err := a.exercises.GetByID(ctx, id)
	if err != nil {
		a.respondStoreError(c, "update exercise", err)
		return
	}
	if existing == nil {
		notFound(c, "exercise", id)
		return
	}

	if err := a.exercises.Update(ctx, id, req); err != nil {
		a.respondStoreError(c, "update exercise", err)
		return
	}
	a.GetExercise(c)
}

// DeleteExercise removes an exercise and its links.
func (a *API) DeleteExercise(c *gin.Context) {
	if err := a.exercises.Delete(c.Request.Context(), c.Param("id")); err != nil {
		a.respondStoreError(c, "delete exercise", err)
		return
	}
	c.Status(http.StatusNoContent)
}
