package api

import (
	"fmt"
	"time"

	"github.com/Amanmohammed1/structura-portfolio-sub000/internal/app"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApiHandler struct {
	Logger          *zap.SugaredLogger
	AnalysisHandler app.AnalysisHandler
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "structura portfolio analytics"})
	})
	router.POST("/analyze", m.analyze)
	router.POST("/compare", m.compare)

	return router.Run(fmt.Sprintf(":%d", port))
}

func (m ApiHandler) returnErrorJson(err error, c *gin.Context) {
	m.returnErrorJsonCode(err, c, 500)
}

func (m ApiHandler) returnErrorJsonCode(err error, c *gin.Context, code int) {
	m.Logger.Error(err.Error())
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	requestID := uuid.New()
	start := time.Now().UTC()

	ctx.Next()

	m.Logger.Infow("handled request",
		"requestID", requestID.String(),
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
		"ip", ctx.ClientIP(),
		"status", ctx.Writer.Status(),
		"elapsedMs", time.Since(start).Milliseconds(),
	)
}
