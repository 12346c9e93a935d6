package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/opusnote/opusnote-api/internal/dto"
	"github.com/opusnote/opusnote-api/internal/models"
	"github.com/opusnote/opusnote-api/internal/repository"
)

// ErrStudentNotFound indicates the requested roster entry does not exist.
var ErrStudentNotFound = errors.New("student not found")

// StudentService orchestrates roster CRUD use cases.
type StudentService interface {
	List(ctx context.Context) ([]dto.StudentResponse, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (dto.StudentResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, id string) (dto.DeleteStudentResponse, error)
}

type studentService struct {
	repo      repository.StudentRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewStudentService constructs the roster service.
func NewStudentService(repo repository.StudentRepository, validator *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		repo:      repo,
		validator: validator,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewStudentResponses(students), nil
}

func (s *studentService) Create(ctx context.Context, req dto.CreateStudentRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.repo.Create(ctx, models.Student{
		Name:               req.Name,
		Age:                req.Age,
		Instrument:         req.Instrument,
		SkillLevel:         req.SkillLevel,
		CurrentAssignments: req.CurrentAssignments,
		CurrentGoals:       req.CurrentGoals,
	})
	if err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("student_id", student.ID).Str("name", student.Name).Msg("student created")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (dto.StudentResponse, error) {
	patch := repository.StudentPatch{
		Name:               req.Name,
		Instrument:         req.Instrument,
		SkillLevel:         req.SkillLevel,
		CurrentAssignments: req.CurrentAssignments,
		CurrentGoals:       req.CurrentGoals,
		LessonNoteHistory:  req.LessonNoteHistory,
	}
	if req.Age.Present {
		patch.AgeSet = true
		if !req.Age.Null {
			value := req.Age.Value
			patch.Age = &value
		}
	}

	student, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("student_id", id).Msg("student updated")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, id string) (dto.DeleteStudentResponse, error) {
	student, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.DeleteStudentResponse{}, ErrStudentNotFound
		}
		return dto.DeleteStudentResponse{}, err
	}

	s.logger.Info().Str("student_id", id).Str("name", student.Name).Msg("student deleted")
	return dto.DeleteStudentResponse{
		Success: true,
		Message: fmt.Sprintf("Student %s deleted successfully", student.Name),
	}, nil
}
