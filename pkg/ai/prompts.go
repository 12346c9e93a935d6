package ai

import (
	"fmt"
	"strings"
)

const recommendationsSystemPrompt = `You are a music teacher assistant. Generate a list of 5 pieces appropriate for the specified instrument, skill level, and student goals.

Your entire response MUST be a single, valid JSON array string (e.g., [ { "title": "...", ... } ]).
Do not include any text, markdown, or apologies before or after the JSON array.

Each object in the array must have these keys: "title", "composer", "focus".`

const lessonPlanSystemPrompt = `You are an expert music educator. Create a structured 8-week lesson plan tailored to the student's instrument, materials, goals, and history. The plan should balance technical exercises, sight-reading, and repertoire.
Format the response in clean Markdown. Use headings (e.g., '### Week 1-2: Focus on Technique') and bullet points for clarity.
Ensure new information starts on a new line. Do not use horizontal rules (---) or asterisks for bullets; use dashes (-) instead.`

const journeyAdultSystemPrompt = `You are an expert music educator drafting an encouraging "Musician's Journey Report" for an adult student.
The tone should be positive, professional, and collaborative.
The report must cover:
1.  **Student's Progress:** Summarize their progress based on lesson history.
2.  **Achievements:** Highlight key pieces mastered or skills developed.
3.  **Goal Achievement:** How they have successfully (or are in the process of) achieving their stated goals.
4.  **Looking Forward:** A brief look at what skills and concepts you plan to cover next.
Format this as a clean document. Use headings (###) and bullet points (-) for clarity.`

const journeyParentSystemPrompt = `You are an expert music educator drafting an encouraging "Musician's Journey Report" for the parent of a student.
**CRITICAL: Assume the parent has ZERO musical knowledge.**
The tone must be positive, professional, and simple.
The report must cover:
1.  **Student's Progress:** Summarize their progress. (e.g., "improved rhythm" becomes "got much better at playing steady beats").
2.  **Achievements:** Highlight key pieces mastered.
3.  **Goal Achievement:** How they are achieving their goals.
4.  **Looking Forward:** A brief, simple look at what's next (e.g., "We'll start learning how to play with both hands together more often.").
Format this as a clean document. Use headings (###) and bullet points (-) for clarity.`

// SystemPrompt returns the instruction template for a kind. The journey report
// template depends on whether the student is an adult.
func SystemPrompt(kind PromptKind, student StudentContext) string {
	switch kind {
	case KindRecommendations:
		return recommendationsSystemPrompt
	case KindLessonPlan:
		return lessonPlanSystemPrompt
	case KindJourneyReport:
		if student.Adult {
			return journeyAdultSystemPrompt
		}
		return journeyParentSystemPrompt
	default:
		return ""
	}
}

// UserPrompt renders the per-student request for a kind.
func UserPrompt(kind PromptKind, student StudentContext) string {
	switch kind {
	case KindRecommendations:
		return fmt.Sprintf(`Generate song recommendations for a %s student at the %s level.
Student Goals: %s
Student Lesson History: %s`,
			student.Instrument,
			student.SkillLevel,
			orNotSpecified(student.CurrentGoals),
			orNotSpecified(student.LessonNoteHistory))
	case KindLessonPlan:
		return fmt.Sprintf(`Create an 8-week plan for this %s student.
Current Materials: %s
Student Goals: %s
Lesson Note History: %s`,
			student.Instrument,
			student.CurrentAssignments,
			orNotSpecified(student.CurrentGoals),
			orNotSpecified(student.LessonNoteHistory))
	case KindJourneyReport:
		return fmt.Sprintf(`Draft the Musician's Journey Report for %s (%s).
Student's Age: %s
Current Materials: %s
Stated Goals: %s
Lesson Note History: %s`,
			student.Name,
			student.Instrument,
			orNotSpecified(student.Age),
			student.CurrentAssignments,
			orNotSpecified(student.CurrentGoals),
			orNotSpecified(student.LessonNoteHistory))
	default:
		return ""
	}
}

func orNotSpecified(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Not specified"
	}
	return value
}
