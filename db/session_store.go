package db

import (
	"context"
	"errors"
	"time"

	"gamehub/models"
	"gamehub/session"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStore keeps client sessions in Postgres.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) Load(ctx context.Context, id string) (*models.ClientSession, error) {
	var sess models.ClientSession
	err := s.db.WithContext(ctx).First(&sess, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *models.ClientSession) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(sess).Error
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&models.ClientSession{}, "id = ?", id).Error
}

// Purge removes sessions idle for longer than maxAge.
func (s *SessionStore) Purge(ctx context.Context, maxAge time.Duration) (int64, error) {
	res := s.db.WithContext(ctx).Where("updated_at < ?", time.Now().Add(-maxAge)).Delete(&models.ClientSession{})
	return res.RowsAffected, res.Error
}
