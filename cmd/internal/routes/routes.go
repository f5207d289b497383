package routes

import (
	"coursenotes/cmd/internal/http/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Notes   *handler.DefaultNoteRoute
	Uploads *handler.DefaultUploadRoute
	Auth    *handler.DefaultAuthRoute
	Health  echo.HandlerFunc

	// WebSocket is nil when realtime notifications are disabled.
	WebSocket *handler.DefaultWSRoute
}

// Register mounts every route on e. Routes that need a user go through auth.
func Register(e *echo.Echo, h *Handlers, auth echo.MiddlewareFunc) {
	// Docker Compose healthcheck
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/uploads/:name", h.Uploads.ServeFile)

	// Auth
	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/logout", h.Auth.Logout, auth)
	authGroup.GET("/me", h.Auth.Me, auth)
	authGroup.DELETE("/me", h.Auth.DeleteAccount, auth)

	// Notes
	notes := e.Group("/api/notes", auth)
	notes.GET("", h.Notes.GetNotes)
	notes.POST("", h.Notes.CreateNote)
	notes.GET("/archived", h.Notes.GetArchivedNotes)
	notes.POST("/upload", h.Uploads.Upload)
	notes.GET("/:id", h.Notes.GetNote)
	notes.PUT("/:id", h.Notes.UpdateNote)
	notes.DELETE("/:id", h.Notes.DeleteNote)
	notes.DELETE("/:id/permanent", h.Notes.PermanentlyDeleteNote)
	notes.POST("/:id/restore", h.Notes.RestoreNote)

	if h.WebSocket != nil {
		e.POST("/ws/connect", h.WebSocket.HandleConnect, auth)
		e.POST("/ws/disconnect", h.WebSocket.HandleDisconnect)
		e.POST("/ws/message", h.WebSocket.HandleMessage)
	}
}
