package service

import (
	"context"
	"errors"
	"time"

	"course-service/internal/content"
	"course-service/internal/event"
	"course-service/internal/models"
	"course-service/internal/repository"
)

var (
	ErrQuizNotPassed = errors.New("quiz not passed")
	ErrNameRequired  = errors.New("student name required")
)

// CertificateService issues certificates. Issuing is gated on a passed quiz
// and is idempotent: regenerating keeps the name from the first issue.
type CertificateService struct {
	Repo      *repository.ProgressRepository
	Loader    *content.Loader
	Publisher *event.Publisher
}

func NewCertificateService(repo *repository.ProgressRepository, loader *content.Loader, publisher *event.Publisher) *CertificateService {
	return &CertificateService{Repo: repo, Loader: loader, Publisher: publisher}
}

// Generate issues the certificate for a course. The student name resolves in
// order: name stored with an earlier issue, the provided name, the active
// profile's name.
func (s *CertificateService) Generate(ctx context.Context, courseID, name string) (models.CertificateData, error) {
	record, err := s.Repo.Load(ctx, courseID)
	if err != nil {
		return models.CertificateData{}, err
	}
	if !record.QuizCompleted || record.QuizResult == nil || !record.QuizResult.Passed {
		return models.CertificateData{}, ErrQuizNotPassed
	}

	studentName := record.UserName
	if studentName == "" {
		studentName = name
	}
	if studentName == "" {
		if profile, err := s.Repo.Profiles.ActiveProfile(ctx); err == nil && profile != nil {
			studentName = profile.Name
		}
	}
	if studentName == "" {
		return models.CertificateData{}, ErrNameRequired
	}

	firstIssue := !record.CertificateGenerated
	record, err = s.Repo.GenerateCertificate(ctx, courseID, studentName)
	if err != nil {
		return models.CertificateData{}, err
	}

	data, err := s.build(courseID, record)
	if err != nil {
		return models.CertificateData{}, err
	}
	if firstIssue {
		_ = s.Publisher.Publish(event.CertificateGenerated, map[string]string{
			"courseId":    courseID,
			"studentName": studentName,
		})
	}
	return data, nil
}

// Get returns the certificate for a course if one was issued.
func (s *CertificateService) Get(ctx context.Context, courseID string) (models.CertificateData, error) {
	record, err := s.Repo.Load(ctx, courseID)
	if err != nil {
		return models.CertificateData{}, err
	}
	if !record.CertificateGenerated {
		return models.CertificateData{}, ErrQuizNotPassed
	}
	return s.build(courseID, record)
}

func (s *CertificateService) build(courseID string, record models.CourseProgress) (models.CertificateData, error) {
	course, err := s.Loader.CourseBySlug(courseID)
	if err != nil {
		return models.CertificateData{}, err
	}

	instructorName := course.Instructor.ID
	if inst, err := s.Loader.InstructorByID(course.Instructor.ID); err == nil && inst != nil && inst.Name != "" {
		instructorName = inst.Name
	}

	completion := time.Now()
	if record.CertificateGeneratedAt != nil {
		completion = *record.CertificateGeneratedAt
	}
	return models.CertificateData{
		StudentName:    record.UserName,
		CourseName:     course.Title,
		InstructorName: instructorName,
		CompletionDate: completion,
	}, nil
}
