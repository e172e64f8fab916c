package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Joe-Bills/moto-spares-manager/internal/infra"
	"github.com/Joe-Bills/moto-spares-manager/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity; never exposes credentials or internals.
// Redis is optional: without it the report email queue is reported as disabled.
func Health(db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		body := gin.H{"db": dbStatus}
		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		if rdb == nil {
			body["redis"] = "disabled"
		} else if rdb.Ping(ctx).Err() != nil {
			body["redis"] = "error"
			status = http.StatusServiceUnavailable
		} else {
			body["redis"] = "connected"
			if n, err := worker.DLQLength(ctx, rdb, worker.QueueReportEmail); err == nil {
				body["report_email_dlq"] = n
			}
		}

		if smtpCB != nil {
			body["smtp_breaker"] = smtpCB.State().String()
		}

		body["ok"] = status == http.StatusOK
		c.JSON(status, body)
	}
}
