package repository

import (
	"context"

	"coursenotes/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *DefaultConnectionRepository {
	return &DefaultConnectionRepository{db: db}
}

func (c *DefaultConnectionRepository) Save(ctx context.Context, conn *entity.Connection) error {
	return c.db.WithContext(ctx).Save(conn).Error
}

func (c *DefaultConnectionRepository) Delete(ctx context.Context, connID string) error {
	return c.db.WithContext(ctx).Where("connection_id = ?", connID).Delete(&entity.Connection{}).Error
}

func (c *DefaultConnectionRepository) FindByUserID(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	result := c.db.WithContext(ctx).
		Model(&entity.Connection{}).
		Where("user_id = ?", userID).
		Pluck("connection_id", &ids)

	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}

func (c *DefaultConnectionRepository) FindAll(ctx context.Context) ([]string, error) {
	ids := []string{}
	result := c.db.WithContext(ctx).Model(&entity.Connection{}).Pluck("connection_id", &ids)
	return ids, result.Error
}

// FindStale returns connections whose token expired or whose last heartbeat
// is older than hbLimit millis.
func (c *DefaultConnectionRepository) FindStale(ctx context.Context, now, hbLimit int64) ([]*entity.Connection, error) {
	conns := []*entity.Connection{}
	err := c.db.WithContext(ctx).
		Where("expires_at <= ? OR last_heartbeat_at <= ?", now, now-hbLimit).
		Find(&conns).Error
	if err != nil {
		return nil, err
	}
	return conns, nil
}

func (c *DefaultConnectionRepository) UpdateHeartbeat(ctx context.Context, connID string, now int64) error {
	return c.db.WithContext(ctx).
		Model(&entity.Connection{}).
		Where("connection_id = ?", connID).
		Update("last_heartbeat_at", now).Error
}
