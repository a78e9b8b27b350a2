package repository

import (
	"fmt"

	"gorm.io/gorm"

	"ragdocai/internal/model"
)

type QAPairRepository struct {
	db *gorm.DB
}

func NewQAPairRepository(db *gorm.DB) *QAPairRepository {
	return &QAPairRepository{db: db}
}

func (r *QAPairRepository) Create(pair *model.QAPair) error {
	if err := r.db.Create(pair).Error; err != nil {
		return fmt.Errorf("create qa pair failed: %w", err)
	}
	return nil
}

func (r *QAPairRepository) ListByDocument(document string) ([]model.QAPair, error) {
	var pairs []model.QAPair
	if err := r.db.Where("document = ?", document).Order("created_at ASC").Find(&pairs).Error; err != nil {
		return nil, fmt.Errorf("list qa pairs failed: %w", err)
	}
	return pairs, nil
}
