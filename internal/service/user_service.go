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

// UserService 把登录服务签发的账号 ID 映射到教师 / 学生档案
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		UserRepo: userRepo,
	}
}

func (s *UserService) ResolveTeacher(ctx context.Context, userID uint) (*model.Teacher, error) {
	teacher, err := s.UserRepo.FindTeacherByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTeacherNotFound
		}
		return nil, err
	}
	return teacher, nil
}

func (s *UserService) ResolveStudent(ctx context.Context, userID uint) (*model.Student, error) {
	student, err := s.UserRepo.FindStudentByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (s *UserService) CreateTeacherProfile(ctx context.Context, userID uint, displayName string) (*model.Teacher, error) {
	teacher := &model.Teacher{
		UserID:      userID,
		DisplayName: strings.TrimSpace(displayName),
	}
	if err := s.UserRepo.CreateTeacher(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, util.ErrProfileExists
		}
		return nil, err
	}
	return teacher, nil
}

type StudentProfileInput struct {
	FirstName  string `json:"firstName" binding:"required"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName" binding:"required"`
}

func (s *UserService) CreateStudentProfile(ctx context.Context, userID uint, in StudentProfileInput) (*model.Student, error) {
	student := &model.Student{
		UserID:     userID,
		FirstName:  strings.TrimSpace(in.FirstName),
		MiddleName: strings.TrimSpace(in.MiddleName),
		LastName:   strings.TrimSpace(in.LastName),
	}
	if err := s.UserRepo.CreateStudent(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, util.ErrProfileExists
		}
		return nil, err
	}
	return student, nil
}
