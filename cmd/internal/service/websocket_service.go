package service

import (
	"context"
	"errors"
	"time"

	"coursenotes/cmd/internal/contract"
	"coursenotes/cmd/internal/domain/entity"
	"coursenotes/cmd/internal/domain/events"
	"coursenotes/cmd/internal/infrastructure/aws/websocket"
	"coursenotes/cmd/internal/metrics"
	"coursenotes/cmd/internal/utils"
	"coursenotes/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

type ConnectionRepository interface {
	Save(ctx context.Context, conn *entity.Connection) error
	Delete(ctx context.Context, connID string) error
	FindByUserID(ctx context.Context, userID string) ([]string, error)
	FindAll(ctx context.Context) ([]string, error)
	FindStale(ctx context.Context, now, hbLimit int64) ([]*entity.Connection, error)
	UpdateHeartbeat(ctx context.Context, connID string, now int64) error
}

// SessionTerminator closes every realtime connection of a user.
type SessionTerminator interface {
	TerminateUserConnections(ctx context.Context, userID string, ck *events.ConnectionKill)
}

type WebSocketService struct {
	ConnRepo ConnectionRepository
	Gateway  websocket.GatewayClient
	Now      func() int64
}

func NewWebSocketService(repo ConnectionRepository, gateway websocket.GatewayClient) *WebSocketService {
	return &WebSocketService{
		ConnRepo: repo,
		Gateway:  gateway,
		Now:      utils.NowUTC,
	}
}

// RegisterConnection keeps the connection until the token expires. exp is
// the token expiry in unix seconds.
func (s *WebSocketService) RegisterConnection(ctx context.Context, userID, connectionID string, exp int64) apierror.ErrorResponse {
	now := s.Now()
	conn := &entity.Connection{
		ConnectionID:    connectionID,
		UserID:          userID,
		ExpiresAt:       exp * 1000,
		LastHeartbeatAt: now,
		CreatedAt:       now,
	}

	if err := s.ConnRepo.Save(ctx, conn); err != nil {
		log.Errorf("failed to save connection %s: %v", connectionID, err)
		return apierror.InternalServerError
	}

	metrics.ActiveConnections.Inc()
	return nil
}

func (s *WebSocketService) RemoveConnection(ctx context.Context, connectionID string) {
	if err := s.ConnRepo.Delete(ctx, connectionID); err != nil {
		log.Warnf("failed to remove connection %s: %v", connectionID, err)
		return
	}
	metrics.ActiveConnections.Dec()
}

func (s *WebSocketService) HandleMessage(ctx context.Context, msg *contract.IncomingSocketMessage, connID string) {
	switch msg.Type {
	case contract.EventPing:
		s.handlePing(ctx, connID)
	default:
		log.Debugf("ignoring socket message %q from %s", msg.Type, connID)
	}
}

// Broadcast sends an event to every registered connection.
func (s *WebSocketService) Broadcast(ctx context.Context, evt events.SocketEvent) {
	conns, err := s.ConnRepo.FindAll(ctx)
	if err != nil {
		log.Errorf("failed to fetch connections for broadcast: %v", err)
		return
	}

	envelope := &contract.OutgoingSocketMessage{
		Type: evt.GetType(),
		Data: evt,
	}

	for _, connID := range conns {
		s.post(ctx, connID, envelope)
	}
}

// TerminateUserConnections sends a kill message and then disconnects.
func (s *WebSocketService) TerminateUserConnections(ctx context.Context, userID string, ck *events.ConnectionKill) {
	conns, err := s.ConnRepo.FindByUserID(ctx, userID)
	if err != nil {
		log.Errorf("failed to fetch connections for user %s: %v", userID, err)
		return
	}

	for _, connID := range conns {
		s.Kill(ctx, connID, ck)
	}
}

// Kill notifies the client, drops it on the gateway and forgets it.
func (s *WebSocketService) Kill(ctx context.Context, connID string, ck *events.ConnectionKill) {
	s.post(ctx, connID, &contract.OutgoingSocketMessage{
		Type: ck.GetType(),
		Data: ck,
	})

	// Give the gateway a moment to flush the kill message.
	time.Sleep(200 * time.Millisecond)

	if err := s.Gateway.DeleteConnection(ctx, connID); err != nil && !errors.Is(err, websocket.ErrGone) {
		log.Warnf("failed to delete connection %s: %v", connID, err)
	}
	s.RemoveConnection(ctx, connID)
}

func (s *WebSocketService) handlePing(ctx context.Context, connID string) {
	if err := s.ConnRepo.UpdateHeartbeat(ctx, connID, s.Now()); err != nil {
		log.Errorf("failed to update heartbeat of %s: %v", connID, err)
		return
	}

	s.post(ctx, connID, &contract.OutgoingSocketMessage{
		Type: contract.EventAck,
	})
}

// post drops connections the gateway reports as gone.
func (s *WebSocketService) post(ctx context.Context, connID string, payload any) {
	err := s.Gateway.PostToConnection(ctx, connID, payload)
	if errors.Is(err, websocket.ErrGone) {
		s.RemoveConnection(ctx, connID)
		return
	}

	if err != nil {
		log.Warnf("failed to push to connection %s: %v", connID, err)
	}
}

// NopDispatcher stands in when realtime notifications are disabled.
type NopDispatcher struct{}

func (NopDispatcher) Broadcast(context.Context, events.SocketEvent) {}

func (NopDispatcher) TerminateUserConnections(context.Context, string, *events.ConnectionKill) {}
