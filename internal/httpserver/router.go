package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"project-service/internal/handler"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	projectHandler *handler.ProjectHandler,
	taskHandler *handler.TaskHandler,
	teamHandler *handler.TeamHandler,
	noteHandler *handler.NoteHandler,
	jwtSecret string,
	db *pgxpool.Pool,
) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	// Protected
	api := r.Group("/api")
	api.Use(AuthMiddleware(jwtSecret))
	{
		api.POST("/projects", projectHandler.Create)
		api.GET("/projects", projectHandler.List)
		api.GET("/projects/:projectID", projectHandler.Get)
		api.PUT("/projects/:projectID", projectHandler.Update)
		api.DELETE("/projects/:projectID", projectHandler.Delete)

		api.GET("/projects/:projectID/team", teamHandler.List)
		api.POST("/projects/:projectID/team", teamHandler.Add)
		api.POST("/projects/:projectID/team/find", teamHandler.Find)
		api.DELETE("/projects/:projectID/team/:userID", teamHandler.Remove)

		api.POST("/projects/:projectID/tasks", taskHandler.Create)
		api.GET("/projects/:projectID/tasks", taskHandler.List)
		api.GET("/projects/:projectID/tasks/:taskID", taskHandler.Get)
		api.PUT("/projects/:projectID/tasks/:taskID", taskHandler.Update)
		api.DELETE("/projects/:projectID/tasks/:taskID", taskHandler.Delete)
		api.POST("/projects/:projectID/tasks/:taskID/status", taskHandler.UpdateStatus)

		api.POST("/projects/:projectID/tasks/:taskID/notes", noteHandler.Create)
		api.GET("/projects/:projectID/tasks/:taskID/notes", noteHandler.List)
		api.DELETE("/projects/:projectID/tasks/:taskID/notes/:noteID", noteHandler.Delete)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
