package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (srv *HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerHookRoutes()
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(gin.Recovery())

	// Triggers get fired from anywhere, so all origins are allowed.
	srv.gin.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Next()
	})
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/", srv.indexPage)
	srv.gin.GET("/monitor", srv.monitor)
	srv.gin.GET("/monitor/", srv.monitor)
	srv.gin.GET("/monitor/monitor.html", srv.monitor)

	srv.gin.GET("/metrics", gin.WrapH(promhttp.Handler()))
	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}

func (srv *HTTPServer) registerHookRoutes() {
	ctx := context.Background()

	srv.gin.GET("/app/:appkey/:triggerkey", srv.webhookHandler.HandleTrigger)
	srv.gin.POST("/app/:appkey/:triggerkey", srv.webhookHandler.HandleTrigger)
	srv.gin.OPTIONS("/app/:appkey/:triggerkey", srv.webhookHandler.HandleTrigger)
	srv.l.Infof(ctx, "Trigger route registered at /app/:appkey/:triggerkey")

	srv.gin.GET("/status/:jobid", srv.jobStatus)

	srv.gin.GET("/admin/:secret/list", srv.listTriggers)
	srv.gin.GET("/admin/:secret/get_app_key", srv.generateAppKey)
}
