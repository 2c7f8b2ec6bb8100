package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/campusboard/timetable-backend/internal/handlers"
	"github.com/campusboard/timetable-backend/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins []string

	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	RoomHandler     *handlers.RoomHandler
	GroupHandler    *handlers.GroupHandler
	LecturerHandler *handlers.LecturerHandler
	EventHandler    *handlers.EventHandler
	CommentHandler  *handlers.CommentHandler
	PhotoHandler    *handlers.PhotoHandler
	ExportHandler   *handlers.ExportHandler
	SyncHandler     *handlers.SyncHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")

	// ===============
	// || Public    ||
	// ===============
	api.POST("/register", cfg.AuthHandler.Register)
	api.POST("/login", cfg.AuthHandler.Login)
	api.POST("/refresh", cfg.AuthHandler.Refresh)

	api.GET("/rooms", cfg.RoomHandler.List)
	api.GET("/rooms/:id", cfg.RoomHandler.Get)

	api.GET("/groups", cfg.GroupHandler.List)
	api.GET("/groups/:id", cfg.GroupHandler.Get)
	api.GET("/groups/:id/events", cfg.ExportHandler.Events)
	api.GET("/groups/:id/calendar.ics", cfg.ExportHandler.Calendar)

	api.GET("/lecturers", cfg.LecturerHandler.List)
	api.GET("/lecturers/:id", cfg.LecturerHandler.Get)
	api.GET("/lecturers/:id/comments", cfg.CommentHandler.ListForLecturer)
	api.POST("/lecturers/:id/comments", cfg.CommentHandler.CreateForLecturer)
	api.GET("/lecturers/:id/photos", cfg.PhotoHandler.List)
	api.GET("/lecturers/:id/photos/:photoId", cfg.PhotoHandler.Get)
	api.POST("/lecturers/:id/photos", cfg.PhotoHandler.Upload)

	api.GET("/events", cfg.EventHandler.List)
	api.GET("/events/:id", cfg.EventHandler.Get)
	api.GET("/events/:id/comments", cfg.CommentHandler.ListForEvent)
	api.POST("/events/:id/comments", cfg.CommentHandler.CreateForEvent)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/logout", cfg.AuthHandler.Logout)

	protected.POST("/rooms", cfg.RoomHandler.Create)
	protected.PATCH("/rooms/:id", cfg.RoomHandler.Update)
	protected.DELETE("/rooms/:id", cfg.RoomHandler.Delete)

	protected.POST("/groups", cfg.GroupHandler.Create)
	protected.PATCH("/groups/:id", cfg.GroupHandler.Update)
	protected.DELETE("/groups/:id", cfg.GroupHandler.Delete)
	protected.GET("/groups/:id/calendar-auth-url", cfg.SyncHandler.AuthURL)
	protected.POST("/groups/:id/calendar-credential", cfg.SyncHandler.SaveCredential)
	protected.DELETE("/groups/:id/calendar-credential", cfg.SyncHandler.RemoveCredential)
	protected.POST("/groups/:id/sync", cfg.SyncHandler.RequestSync)

	protected.POST("/lecturers", cfg.LecturerHandler.Create)
	protected.PATCH("/lecturers/:id", cfg.LecturerHandler.Update)
	protected.DELETE("/lecturers/:id", cfg.LecturerHandler.Delete)
	protected.PUT("/lecturers/:id/avatar", cfg.LecturerHandler.SetAvatar)
	protected.PATCH("/lecturers/:id/comments/:commentId", cfg.CommentHandler.UpdateForLecturer)
	protected.POST("/lecturers/:id/comments/:commentId/review", cfg.CommentHandler.ReviewForLecturer)
	protected.DELETE("/lecturers/:id/comments/:commentId", cfg.CommentHandler.DeleteForLecturer)
	protected.POST("/lecturers/:id/photos/:photoId/review", cfg.PhotoHandler.Review)
	protected.DELETE("/lecturers/:id/photos/:photoId", cfg.PhotoHandler.Delete)

	protected.POST("/events", cfg.EventHandler.Create)
	protected.PATCH("/events/:id", cfg.EventHandler.Update)
	protected.DELETE("/events/:id", cfg.EventHandler.Delete)
	protected.PATCH("/events/:id/comments/:commentId", cfg.CommentHandler.UpdateForEvent)
	protected.POST("/events/:id/comments/:commentId/review", cfg.CommentHandler.ReviewForEvent)
	protected.DELETE("/events/:id/comments/:commentId", cfg.CommentHandler.DeleteForEvent)

	protected.GET("/moderation/lecturer-comments", cfg.CommentHandler.UnreviewedForLecturers)
	protected.GET("/moderation/event-comments", cfg.CommentHandler.UnreviewedForEvents)
	protected.GET("/moderation/photos", cfg.PhotoHandler.Unreviewed)

	return router
}
