// ABOUTME: JSON HTTP API over the fitness repositories.
// ABOUTME: Routes mirror the service surface; handlers never touch SQL.
package api

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/harperreed/fitness/internal/storage"
)

// API holds the repositories the handlers call.
type API struct {
	exercises storage.ExerciseRepository
	routines  storage.RoutineRepository
	sessions  storage.SessionRepository
	logger    *log.Logger
	now       func() time.Time
}

// New creates an API over the three repositories.
func New(exercises storage.ExerciseRepository, routines storage.RoutineRepository,
	sessions storage.SessionRepository, logger *log.Logger) *API {
	if logger == nil {
		logger = log.Default()
	}
	return &API{
		exercises: exercises,
		routines:  routines,
		sessions:  sessions,
		logger:    logger,
		now:       time.Now,
	}
}

// Router builds the gin engine with every route registered.
func (a *API) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(a.logRequests())

	r.GET("/health", a.Health)

	exercises := r.Group("/exercises")
	{
		exercises.GET("", a.ListExercises)
		exercises.POST("", a.CreateExercise)
		exercises.GET("/:id", a.GetExercise)
		exercises.PATCH("/:id", a.UpdateExercise)
		exercises.DELETE("/:id", a.DeleteExercise)
	}

	routines := r.Group("/routines")
	{
		routines.GET("", a.ListRoutines)
		routines.POST("", a.CreateRoutine)
		routines.GET("/:id", a.GetRoutine)
		routines.PATCH("/:id", a.UpdateRoutine)
		routines.PUT("/:id/exercises", a.SetRoutineExercises)
		routines.DELETE("/:id", a.DeleteRoutine)
	}

	sessions := r.Group("/sessions")
	{
		sessions.GET("", a.ListSessions)
		sessions.POST("", a.CreateSession)
		sessions.GET("/active", a.GetActiveSession)
		sessions.GET("/:id", a.GetSession)
		sessions.PATCH("/:id", a.UpdateSession)
		sessions.DELETE("/:id", a.DeleteSession)
		sessions.POST("/:id/finish", a.FinishSession)
		sessions.POST("/:id/sets", a.AddSet)
		sessions.PATCH("/:id/sets/:exercise_id/:set_number", a.UpdateSet)
		sessions.DELETE("/:id/sets/:exercise_id/:set_number", a.RemoveSet)
	}

	return r
}

// logRequests logs one line per request at debug level.
func (a *API) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
