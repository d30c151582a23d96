package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.LedgerHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	l := r.Group("/ledger")
	l.GET("", handler.Document)
	l.GET("/summary", handler.Summary)
	l.GET("/selection", handler.Selection)
	l.POST("/save", handler.Save)
	l.POST("/reload", handler.Reload)

	products := r.Group("/products")
	products.POST("", handler.CreateProduct)
	products.DELETE("/:product", handler.DeleteProduct)
	products.POST("/:product/select", handler.SelectProduct)

	sheets := products.Group("/:product/sheets")
	sheets.POST("", handler.CreateSheet)
	sheets.DELETE("/:sheet", handler.DeleteSheet)
	sheets.POST("/:sheet/select", handler.SelectSheet)

	pages := sheets.Group("/:sheet/pages")
	pages.POST("", handler.CreatePage)
	pages.GET("/:page", handler.Page)
	pages.PATCH("/:page", handler.UpdatePage)
	pages.DELETE("/:page", handler.DeletePage)
	pages.POST("/:page/select", handler.SelectPage)

	records := pages.Group("/:page/records")
	records.POST("", handler.AppendRecord)
	records.PUT("/:record", handler.UpdateRecord)
	records.DELETE("/:record", handler.DeleteRecord)
	records.POST("/:record/select", handler.SelectRecord)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
