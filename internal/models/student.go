package models

import "encoding/json"

// TimestampLayout is the fixed-width creation-time format stored on records.
// Zero-padded fields keep lexicographic order equal to chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// DefaultOwnerID is the single-tenant owner placeholder stamped on every record.
const DefaultOwnerID = "local-user"

// Student is one roster entry. The whole roster is persisted as a single JSON
// document keyed by ID.
type Student struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Age                *int   `json:"age"`
	Instrument         string `json:"instrument"`
	SkillLevel         string `json:"skillLevel"`
	CurrentAssignments string `json:"currentAssignments"`
	CurrentGoals       string `json:"currentGoals"`
	LessonNoteHistory  string `json:"lessonNoteHistory"`
	// Recommendations holds a serialized JSON array of Recommendation values.
	Recommendations string `json:"recommendations"`
	LessonPlan      string `json:"lessonPlan"`
	JourneyReport   string `json:"journeyReport"`
	Timestamp       string `json:"timestamp"`
	OwnerID         string `json:"ownerId"`
}

// Recommendation is one AI-suggested piece for a student.
type Recommendation struct {
	Title    string `json:"title"`
	Composer string `json:"composer"`
	Focus    string `json:"focus"`
}

// DecodedRecommendations deserializes the stored recommendations list. A blank
// or unparsable value decodes to an empty list; corrupt stored data must not
// make a record unreadable.
func (s Student) DecodedRecommendations() []Recommendation {
	if s.Recommendations == "" {
		return []Recommendation{}
	}

	var recs []Recommendation
	if err := json.Unmarshal([]byte(s.Recommendations), &recs); err != nil || recs == nil {
		return []Recommendation{}
	}
	return recs
}

// IsAdult reports whether the record's age is an integer above 18. Absent age
// counts as not adult.
func (s Student) IsAdult() bool {
	return s.Age != nil && *s.Age > 18
}
