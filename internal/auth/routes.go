package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes registers Auth routes. Register and login are public; /me
// sits behind the token middleware.
func RegisterRoutes(r *gin.Engine, handler *Handler, service *Service) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.GET("/me", Middleware(service), handler.Me)
	}
}
