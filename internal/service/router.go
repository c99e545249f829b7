package service

import (
	"github.com/gin-gonic/gin"
)

func (s *service) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.POST("/orders", s.submitOrder)
	api.GET("/orders", s.listOrders)
	api.DELETE("/orders", s.cancelOrder)
	api.GET("/price", s.getPrice)
	api.GET("/test-env", s.testEnv)

	return router
}
