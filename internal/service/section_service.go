package service

import (
	"context"
	"errors"
	"strings"

	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/repository"
	"surveylyze_backend/internal/util"

	"gorm.io/gorm"
)

type SectionService struct {
	sectionRepo *repository.ClassSectionRepository
	userRepo    *repository.UserRepository
}

func NewSectionService(sectionRepo *repository.ClassSectionRepository, userRepo *repository.UserRepository) *SectionService {
	return &SectionService{
		sectionRepo: sectionRepo,
		userRepo:    userRepo,
	}
}

type SectionInput struct {
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required"`
	YearLevel int    `json:"yearLevel"`
}

func (s *SectionService) CreateSection(ctx context.Context, in SectionInput) (*model.ClassSection, error) {
	section := &model.ClassSection{
		Name:      strings.TrimSpace(in.Name),
		Code:      strings.ToUpper(strings.TrimSpace(in.Code)),
		YearLevel: in.YearLevel,
	}
	if section.Name == "" || section.Code == "" {
		return nil, &model.ConfigurationError{Field: "section", Reason: "name and code are required"}
	}
	if section.YearLevel <= 0 {
		section.YearLevel = 1
	}

	if err := s.sectionRepo.Create(ctx, section); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, util.ErrSectionCodeDuplicate
		}
		return nil, err
	}
	return section, nil
}

func (s *SectionService) ListSections(ctx context.Context) ([]model.ClassSection, error) {
	return s.sectionRepo.List(ctx)
}

// EnrollStudent places a student in a section, replacing any previous one.
func (s *SectionService) EnrollStudent(ctx context.Context, studentID, sectionID uint) error {
	if _, err := s.sectionRepo.FindByID(ctx, sectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrSectionNotFound
		}
		return err
	}
	if err := s.userRepo.UpdateStudentSection(ctx, studentID, &sectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrStudentNotFound
		}
		return err
	}
	return nil
}
