package handler

import (
	"github.com/dafibh/addressbook/addressbook-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, contactHandler *ContactHandler, userHandler *UserHandler, imageHandler *ImageHandler, wsHandler *WebSocketHandler) {
	e.GET("/", Root)
	e.GET("/health", Health)

	// API documentation
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", ServeOpenAPI3Spec)

	limited := middleware.RateLimitMiddleware(rateLimiter)

	contacts := e.Group("/contacts")
	contacts.GET("/new", contactHandler.CreateContact, authMiddleware.Authenticate(), limited)
	contacts.POST("/new", contactHandler.CreateContact, authMiddleware.Authenticate(), limited)
	contacts.GET("/get/:id", contactHandler.GetContact)
	contacts.GET("/delete/:id", contactHandler.DeleteContact, authMiddleware.Authenticate(), limited)
	contacts.POST("/update/:id", contactHandler.UpdateContact, authMiddleware.Authenticate(), limited)
	contacts.GET("/list", contactHandler.ListContacts, authMiddleware.OptionalAuthenticate())

	e.GET("/mypage", userHandler.MyPage, authMiddleware.Authenticate())

	e.GET("/images/:name", imageHandler.GetImage)

	// WebSocket authenticates with its token query parameter
	e.GET("/ws", wsHandler.HandleWS)
}
