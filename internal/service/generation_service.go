package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/opusnote/opusnote-api/internal/models"
	"github.com/opusnote/opusnote-api/internal/repository"
	"github.com/opusnote/opusnote-api/pkg/ai"
)

// Generation Gateway failure taxonomy. Both surface as 500 to the caller; no
// retries anywhere.
var (
	ErrGenerationUnavailable = errors.New("generation service unavailable")
	ErrMalformedResponse     = errors.New("malformed generation response")
)

// GenerationService runs the AI-assisted content features and writes results
// back onto the student record.
type GenerationService interface {
	Recommendations(ctx context.Context, id string) ([]ai.Recommendation, error)
	LessonPlan(ctx context.Context, id string) (string, error)
	JourneyReport(ctx context.Context, id string) (string, error)
}

type generationService struct {
	students  repository.StudentRepository
	generator ai.Generator
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewGenerationService constructs the generation service. A nil generator
// means the gateway is unconfigured and every call fails as unavailable.
func NewGenerationService(students repository.StudentRepository, generator ai.Generator, timeout time.Duration, logger zerolog.Logger) GenerationService {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &generationService{
		students:  students,
		generator: generator,
		timeout:   timeout,
		logger:    logger.With().Str("component", "generation_service").Logger(),
	}
}

func (s *generationService) Recommendations(ctx context.Context, id string) ([]ai.Recommendation, error) {
	raw, err := s.generate(ctx, ai.KindRecommendations, id)
	if err != nil {
		return nil, err
	}

	recs, err := ai.ParseRecommendations(raw)
	if err != nil {
		// Stored recommendations stay untouched on a parse failure.
		s.logger.Warn().Err(err).Str("student_id", id).Msg("discarding unparsable recommendations")
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	serialized, err := json.Marshal(recs)
	if err != nil {
		return nil, fmt.Errorf("serialize recommendations: %w", err)
	}

	if _, err := s.students.SetGenerated(ctx, id, repository.FieldRecommendations, string(serialized)); err != nil {
		return nil, s.mapStoreErr(err)
	}

	s.logger.Info().Str("student_id", id).Int("count", len(recs)).Msg("recommendations generated")
	return recs, nil
}

func (s *generationService) LessonPlan(ctx context.Context, id string) (string, error) {
	raw, err := s.generate(ctx, ai.KindLessonPlan, id)
	if err != nil {
		return "", err
	}

	if _, err := s.students.SetGenerated(ctx, id, repository.FieldLessonPlan, raw); err != nil {
		return "", s.mapStoreErr(err)
	}

	s.logger.Info().Str("student_id", id).Msg("lesson plan generated")
	return raw, nil
}

func (s *generationService) JourneyReport(ctx context.Context, id string) (string, error) {
	raw, err := s.generate(ctx, ai.KindJourneyReport, id)
	if err != nil {
		return "", err
	}

	if _, err := s.students.SetGenerated(ctx, id, repository.FieldJourneyReport, raw); err != nil {
		return "", s.mapStoreErr(err)
	}

	s.logger.Info().Str("student_id", id).Msg("journey report generated")
	return raw, nil
}

// generate loads the record and runs one gateway call under the configured
// deadline. The call is detached from request cancellation: a client that
// disconnects mid-generation does not abort the call, and its result is still
// written back.
func (s *generationService) generate(ctx context.Context, kind ai.PromptKind, id string) (string, error) {
	student, err := s.students.Get(ctx, id)
	if err != nil {
		return "", s.mapStoreErr(err)
	}

	if s.generator == nil {
		return "", ErrGenerationUnavailable
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	raw, err := s.generator.Generate(callCtx, kind, studentContext(student))
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", id).Str("kind", string(kind)).Msg("generation failed")
		return "", fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	return raw, nil
}

func (s *generationService) mapStoreErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrStudentNotFound
	}
	return err
}

func studentContext(student models.Student) ai.StudentContext {
	age := ""
	if student.Age != nil {
		age = strconv.Itoa(*student.Age)
	}
	return ai.StudentContext{
		Name:               student.Name,
		Age:                age,
		Instrument:         student.Instrument,
		SkillLevel:         student.SkillLevel,
		CurrentAssignments: student.CurrentAssignments,
		CurrentGoals:       student.CurrentGoals,
		LessonNoteHistory:  student.LessonNoteHistory,
		Adult:              student.IsAdult(),
	}
}
