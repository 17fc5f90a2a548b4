package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health checks DB and Redis connectivity and reports the payment queue
// backlog so operators can spot a stalled worker pool. Never exposes
// credentials or connection details.
func Health(db *gorm.DB, rdb *redis.Client, pagoQueue string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		backlog := int64(-1)
		if err := rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "error"
		} else if n, err := rdb.LLen(ctx, pagoQueue).Result(); err == nil {
			backlog = n
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":            status == http.StatusOK,
			"db":            dbStatus,
			"redis":         redisStatus,
			"pagos_en_cola": backlog,
		})
	}
}
