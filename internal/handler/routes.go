package handler

import "github.com/gin-gonic/gin"

// RegisterFormRoutes mounts the pricing form endpoints on g
func RegisterFormRoutes(g *gin.RouterGroup, h *FormHandler) {
	g.GET("/", h.Index)
	g.POST("/", h.Submit)
	g.GET("/state", h.State)
	g.POST("/fields/:name", h.SetField)
	g.POST("/predict", h.Predict)
}

// RegisterProxyRoutes mounts the backend proxy on g
func RegisterProxyRoutes(g *gin.RouterGroup, h *ProxyHandler) {
	g.Any("/api/*path", h.Forward)
}
