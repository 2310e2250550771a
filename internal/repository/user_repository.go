package repository

import (
	"context"

	"surveylyze_backend/internal/model"

	"gorm.io/gorm"
)

// UserRepository resolves account ids from the login service to the
// teacher and student profiles this service owns.
type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) CreateTeacher(ctx context.Context, teacher *model.Teacher) error {
	return wrapUnique(r.DB.WithContext(ctx).Create(teacher).Error, "create teacher")
}

func (r *UserRepository) CreateStudent(ctx context.Context, student *model.Student) error {
	return wrapUnique(r.DB.WithContext(ctx).Create(student).Error, "create student")
}

func (r *UserRepository) FindTeacherByID(ctx context.Context, id uint) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.DB.WithContext(ctx).First(&teacher, id).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *UserRepository) FindTeacherByUserID(ctx context.Context, userID uint) (*model.Teacher, error) {
	var teacher model.Teacher
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&teacher).Error
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func (r *UserRepository) FindStudentByID(ctx context.Context, id uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.WithContext(ctx).First(&student, id).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *UserRepository) FindStudentByUserID(ctx context.Context, userID uint) (*model.Student, error) {
	var student model.Student
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateStudentSection moves a student into a section; nil removes them
// from any section.
func (r *UserRepository) UpdateStudentSection(ctx context.Context, studentID uint, sectionID *uint) error {
	res := r.DB.WithContext(ctx).
		Model(&model.Student{}).
		Where("id = ?", studentID).
		Update("class_section_id", sectionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
