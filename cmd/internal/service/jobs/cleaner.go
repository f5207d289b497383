package jobs

import (
	"context"
	"time"

	"coursenotes/cmd/internal/contract"
	"coursenotes/cmd/internal/domain/entity"
	"coursenotes/cmd/internal/domain/events"
	"coursenotes/cmd/internal/service"

	"github.com/labstack/gommon/log"
)

const sweepInterval = time.Minute

// ConnectionCleaner drops websocket connections whose token expired or
// that stopped sending heartbeats.
type ConnectionCleaner struct {
	wsService *service.WebSocketService
}

func NewConnectionCleaner(wsService *service.WebSocketService) *ConnectionCleaner {
	return &ConnectionCleaner{wsService: wsService}
}

func (c *ConnectionCleaner) Start(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	log.Info("connection cleaner started")

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping connection cleaner")
			return
		case <-ticker.C:
			c.Sweep(ctx)
		}
	}
}

// Sweep terminates every stale connection once and returns how many it found.
func (c *ConnectionCleaner) Sweep(ctx context.Context) int {
	now := c.wsService.Now()
	limit := entity.HeartbeatPeriodMillis + entity.HeartbeatToleranceMillis

	conns, err := c.wsService.ConnRepo.FindStale(ctx, now, limit)
	if err != nil {
		log.Errorf("cleaner: failed to fetch stale connections: %v", err)
		return 0
	}

	if len(conns) == 0 {
		return 0
	}

	log.Infof("cleaner: terminating %d stale connections", len(conns))
	for _, conn := range conns {
		code := contract.KillCodeHeartbeatTimeout
		if conn.ExpiresAt <= now {
			code = contract.KillCodeTokenExpired
		}
		c.wsService.Kill(ctx, conn.ConnectionID, &events.ConnectionKill{Code: code})
	}
	return len(conns)
}
