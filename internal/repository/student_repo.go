package repository

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/opusnote/opusnote-api/internal/models"
)

// GeneratedField names the record fields writable only through the generation
// write-back path.
type GeneratedField string

// Generated fields owned by the Generation Gateway.
const (
	FieldRecommendations GeneratedField = "recommendations"
	FieldLessonPlan      GeneratedField = "lessonPlan"
	FieldJourneyReport   GeneratedField = "journeyReport"
)

// StudentPatch is a field-by-field override for Update. Nil pointers leave the
// stored value alone. Age carries an explicit set flag so a patch can clear the
// field (AgeSet with nil Age) or set it to any value, zero included.
type StudentPatch struct {
	Name               *string
	AgeSet             bool
	Age                *int
	Instrument         *string
	SkillLevel         *string
	CurrentAssignments *string
	CurrentGoals       *string
	LessonNoteHistory  *string
}

// StudentRepository provides access to the student roster document.
type StudentRepository interface {
	List(ctx context.Context) ([]models.Student, error)
	Get(ctx context.Context, id string) (models.Student, error)
	Create(ctx context.Context, student models.Student) (models.Student, error)
	Update(ctx context.Context, id string, patch StudentPatch) (models.Student, error)
	Delete(ctx context.Context, id string) (models.Student, error)
	SetGenerated(ctx context.Context, id string, field GeneratedField, value string) (models.Student, error)
}

type studentRepository struct {
	store *documentStore[models.Student]
	now   func() time.Time
}

// StudentsFile is the roster document name inside the data directory.
const StudentsFile = "students.json"

// NewStudentRepository constructs a roster repository backed by a JSON
// document in dataDir.
func NewStudentRepository(dataDir string) StudentRepository {
	return &studentRepository{
		store: newDocumentStore[models.Student](filepath.Join(dataDir, StudentsFile)),
		now:   time.Now,
	}
}

func (r *studentRepository) List(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := r.store.View(func(docs map[string]models.Student) error {
		students = make([]models.Student, 0, len(docs))
		for _, s := range docs {
			students = append(students, s)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The fixed-width timestamp layout makes string comparison chronological.
	// Ties break by id descending so the order is deterministic.
	sort.Slice(students, func(i, j int) bool {
		if students[i].Timestamp != students[j].Timestamp {
			return students[i].Timestamp > students[j].Timestamp
		}
		return students[i].ID > students[j].ID
	})
	return students, nil
}

func (r *studentRepository) Get(ctx context.Context, id string) (models.Student, error) {
	var student models.Student
	err := r.store.View(func(docs map[string]models.Student) error {
		found, ok := docs[id]
		if !ok {
			return ErrNotFound
		}
		student = found
		return nil
	})
	return student, err
}

func (r *studentRepository) Create(ctx context.Context, student models.Student) (models.Student, error) {
	err := r.store.Update(func(docs map[string]models.Student) error {
		now := r.now()
		student.ID = freshID(docs, now)
		student.Timestamp = now.Format(models.TimestampLayout)
		student.OwnerID = models.DefaultOwnerID
		if student.Recommendations == "" {
			student.Recommendations = "[]"
		}
		docs[student.ID] = student
		return nil
	})
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) Update(ctx context.Context, id string, patch StudentPatch) (models.Student, error) {
	var student models.Student
	err := r.store.Update(func(docs map[string]models.Student) error {
		current, ok := docs[id]
		if !ok {
			return ErrNotFound
		}

		if patch.Name != nil {
			current.Name = *patch.Name
		}
		if patch.AgeSet {
			current.Age = patch.Age
		}
		if patch.Instrument != nil {
			current.Instrument = *patch.Instrument
		}
		if patch.SkillLevel != nil {
			current.SkillLevel = *patch.SkillLevel
		}
		if patch.CurrentAssignments != nil {
			current.CurrentAssignments = *patch.CurrentAssignments
		}
		if patch.CurrentGoals != nil {
			current.CurrentGoals = *patch.CurrentGoals
		}
		if patch.LessonNoteHistory != nil {
			current.LessonNoteHistory = *patch.LessonNoteHistory
		}

		docs[id] = current
		student = current
		return nil
	})
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) Delete(ctx context.Context, id string) (models.Student, error) {
	var student models.Student
	err := r.store.Update(func(docs map[string]models.Student) error {
		current, ok := docs[id]
		if !ok {
			return ErrNotFound
		}
		student = current
		delete(docs, id)
		return nil
	})
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) SetGenerated(ctx context.Context, id string, field GeneratedField, value string) (models.Student, error) {
	var student models.Student
	err := r.store.Update(func(docs map[string]models.Student) error {
		current, ok := docs[id]
		if !ok {
			return ErrNotFound
		}

		switch field {
		case FieldRecommendations:
			current.Recommendations = value
		case FieldLessonPlan:
			current.LessonPlan = value
		case FieldJourneyReport:
			current.JourneyReport = value
		}

		docs[id] = current
		student = current
		return nil
	})
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

// freshID derives an id from the wall clock in milliseconds. Collisions inside
// one millisecond are nudged forward rather than overwriting; beyond that the
// timestamp id is best-effort unique, not guaranteed.
func freshID(docs map[string]models.Student, now time.Time) string {
	candidate := now.UnixMilli()
	for {
		id := strconv.FormatInt(candidate, 10)
		if _, taken := docs[id]; !taken {
			return id
		}
		candidate++
	}
}
