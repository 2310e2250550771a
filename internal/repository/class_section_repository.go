package repository

import (
	"context"

	"surveylyze_backend/internal/model"

	"gorm.io/gorm"
)

type ClassSectionRepository struct {
	DB *gorm.DB
}

func NewClassSectionRepository(db *gorm.DB) *ClassSectionRepository {
	return &ClassSectionRepository{DB: db}
}

func (r *ClassSectionRepository) Create(ctx context.Context, section *model.ClassSection) error {
	return wrapUnique(r.DB.WithContext(ctx).Create(section).Error, "create class section")
}

func (r *ClassSectionRepository) FindByID(ctx context.Context, id uint) (*model.ClassSection, error) {
	var section model.ClassSection
	err := r.DB.WithContext(ctx).First(&section, id).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *ClassSectionRepository) List(ctx context.Context) ([]model.ClassSection, error) {
	var sections []model.ClassSection
	err := r.DB.WithContext(ctx).
		Order("year_level ASC, name ASC, id ASC").
		Find(&sections).Error
	return sections, err
}
