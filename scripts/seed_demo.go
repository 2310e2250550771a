// 手动写入演示数据：一个班级、一名教师、一名学生和一份已发布的问卷，
// 并打印两人的测试 token（登录由外部账号服务负责，本地调试时用它代替）。
//
// 用法: go run scripts/seed_demo.go

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"surveylyze_backend/internal/config"
	"surveylyze_backend/internal/model"
	"surveylyze_backend/internal/repository"
	"surveylyze_backend/internal/service"
	"surveylyze_backend/internal/util"
	"surveylyze_backend/pkg/database"
)

const (
	teacherUserID = 1001
	studentUserID = 2001
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("连接数据库失败: %v", err)
	}

	ctx := context.Background()
	loc := cfg.Server.Location()

	userRepo := repository.NewUserRepository(db)
	sectionRepo := repository.NewClassSectionRepository(db)
	users := service.NewUserService(userRepo)
	sections := service.NewSectionService(sectionRepo, userRepo)
	surveys := service.NewSurveyService(
		repository.NewSurveyRepository(db),
		repository.NewQuestionRepository(db),
		repository.NewAssignmentRepository(db),
		sectionRepo,
		loc,
	)

	section, err := sections.CreateSection(ctx, service.SectionInput{Name: "BSIT 2-A", Code: "BSIT-2A", YearLevel: 2})
	if errors.Is(err, util.ErrSectionCodeDuplicate) {
		log.Println("演示数据已存在，跳过")
		printTokens(cfg)
		return
	}
	if err != nil {
		log.Fatalf("创建班级失败: %v", err)
	}

	teacher, err := users.CreateTeacherProfile(ctx, teacherUserID, "Demo Teacher")
	if err != nil {
		log.Fatalf("创建教师失败: %v", err)
	}
	student, err := users.CreateStudentProfile(ctx, studentUserID, service.StudentProfileInput{
		FirstName: "Juan",
		LastName:  "Dela Cruz",
	})
	if err != nil {
		log.Fatalf("创建学生失败: %v", err)
	}
	if err := sections.EnrollStudent(ctx, student.ID, section.ID); err != nil {
		log.Fatalf("学生分班失败: %v", err)
	}

	due := model.CalendarDate(time.Now().AddDate(0, 0, 14), loc)
	maxLen := 300
	survey, err := surveys.CreateSurvey(ctx, teacher.ID, service.CreateSurveyInput{
		Title:      "Course Feedback",
		DueDate:    &due,
		Publish:    true,
		SectionIDs: []uint{section.ID},
		Questions: []service.QuestionInput{
			{Text: "Which session format did you prefer?", Type: "MCQ", Options: []string{"Lecture", "Workshop", "Lab"}},
			{Text: "The pacing of the course was appropriate.", Type: "LIKERT"},
			{Text: "What should we improve?", Type: "SHORT", MaxLength: &maxLen},
		},
	})
	if err != nil {
		log.Fatalf("创建问卷失败: %v", err)
	}

	fmt.Printf("班级 %d, 教师 %d, 学生 %d, 问卷 %d\n", section.ID, teacher.ID, student.ID, survey.ID)
	printTokens(cfg)
}

func printTokens(cfg *config.Config) {
	for _, u := range []struct {
		id   uint
		role model.UserRole
	}{
		{teacherUserID, model.RoleTeacher},
		{studentUserID, model.RoleStudent},
	} {
		token, err := util.GenerateJWT(u.id, u.role, cfg.JWT.Secret, 24*time.Hour)
		if err != nil {
			log.Fatalf("生成 token 失败: %v", err)
		}
		fmt.Printf("%s token: %s\n", u.role, token)
	}
}
