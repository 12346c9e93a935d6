package dto

import (
	"bytes"
	"encoding/json"

	"github.com/opusnote/opusnote-api/internal/models"
)

// OptionalInt distinguishes the three states a patch field can arrive in:
// absent (keep the stored value), JSON null (clear it), or a value (set it,
// zero included). A plain pointer cannot tell absent from null.
type OptionalInt struct {
	Present bool
	Null    bool
	Value   int
}

// UnmarshalJSON records presence and null-ness alongside the value.
func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON keeps OptionalInt symmetric for logging and tests.
func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// CreateStudentRequest is the POST /api/students payload. The four required
// fields gate creation; everything else defaults.
type CreateStudentRequest struct {
	Name               string `json:"name" validate:"required"`
	Age                *int   `json:"age"`
	Instrument         string `json:"instrument" validate:"required"`
	SkillLevel         string `json:"skillLevel" validate:"required"`
	CurrentAssignments string `json:"currentAssignments" validate:"required"`
	CurrentGoals       string `json:"currentGoals"`
}

// UpdateStudentRequest is the PUT /api/students/:id patch. Nil pointers mean
// "leave unchanged"; Age carries the explicit absent/null/value distinction.
// Generated fields (recommendations, lessonPlan, journeyReport) and identity
// fields (id, timestamp, ownerId) are not patchable through this path.
type UpdateStudentRequest struct {
	Name               *string     `json:"name"`
	Age                OptionalInt `json:"age"`
	Instrument         *string     `json:"instrument"`
	SkillLevel         *string     `json:"skillLevel"`
	CurrentAssignments *string     `json:"currentAssignments"`
	CurrentGoals       *string     `json:"currentGoals"`
	LessonNoteHistory  *string     `json:"lessonNoteHistory"`
}

// StudentResponse is the API view of a record. Recommendations are returned
// deserialized even though the store keeps them as a serialized string.
type StudentResponse struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	Age                *int                    `json:"age"`
	Instrument         string                  `json:"instrument"`
	SkillLevel         string                  `json:"skillLevel"`
	CurrentAssignments string                  `json:"currentAssignments"`
	CurrentGoals       string                  `json:"currentGoals"`
	LessonNoteHistory  string                  `json:"lessonNoteHistory"`
	Recommendations    []models.Recommendation `json:"recommendations"`
	LessonPlan         string                  `json:"lessonPlan"`
	JourneyReport      string                  `json:"journeyReport"`
	Timestamp          string                  `json:"timestamp"`
	OwnerID            string                  `json:"ownerId"`
}

// NewStudentResponse maps a stored record to its API view.
func NewStudentResponse(s models.Student) StudentResponse {
	return StudentResponse{
		ID:                 s.ID,
		Name:               s.Name,
		Age:                s.Age,
		Instrument:         s.Instrument,
		SkillLevel:         s.SkillLevel,
		CurrentAssignments: s.CurrentAssignments,
		CurrentGoals:       s.CurrentGoals,
		LessonNoteHistory:  s.LessonNoteHistory,
		Recommendations:    s.DecodedRecommendations(),
		LessonPlan:         s.LessonPlan,
		JourneyReport:      s.JourneyReport,
		Timestamp:          s.Timestamp,
		OwnerID:            s.OwnerID,
	}
}

// NewStudentResponses maps a listing, preserving order.
func NewStudentResponses(students []models.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, NewStudentResponse(s))
	}
	return out
}

// DeleteStudentResponse confirms a deletion.
type DeleteStudentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ImportResponse reports how many rows a spreadsheet import created.
type ImportResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}
