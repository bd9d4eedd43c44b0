package repository

import (
	"github.com/localhive/local_hive/models"
	"github.com/localhive/local_hive/services"
	"gorm.io/gorm"
)

// GormSessionLister feeds the recommendation pool: the most recently
// created confirmed sessions, capped by the caller.
type GormSessionLister struct {
	db *gorm.DB
}

func NewGormSessionLister(db *gorm.DB) *GormSessionLister {
	return &GormSessionLister{db: db}
}

func (s *GormSessionLister) ListConfirmedSessions(limit int) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.
		Where("status = ?", models.SessionStatusConfirmed).
		Order("created_at desc").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

var _ services.SessionLister = (*GormSessionLister)(nil)
