package ai

import "context"

// PromptKind selects which instruction template a generation request uses.
type PromptKind string

// Supported generation kinds.
const (
	KindRecommendations PromptKind = "recommendations"
	KindLessonPlan      PromptKind = "lessonPlan"
	KindJourneyReport   PromptKind = "journeyReport"
)

// StudentContext carries the record fields interpolated into prompts. Adult
// switches the journey report between the adult-facing and parent-facing
// templates; the caller decides it from the record's age.
type StudentContext struct {
	Name               string
	Age                string
	Instrument         string
	SkillLevel         string
	CurrentAssignments string
	CurrentGoals       string
	LessonNoteHistory  string
	Adult              bool
}

// Recommendation is one suggested piece in a recommendations response.
type Recommendation struct {
	Title    string `json:"title"`
	Composer string `json:"composer"`
	Focus    string `json:"focus"`
}

// Generator produces raw text for a prompt kind and student. Implementations
// are synchronous; callers bound them with a context deadline.
type Generator interface {
	Generate(ctx context.Context, kind PromptKind, student StudentContext) (string, error)
}
