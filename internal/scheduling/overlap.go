package scheduling

import "feedyourmind-app/internal/models"

// OverlapResult is the outcome of an overlap check. ConflictingLesson is set
// only when Overlap is true.
type OverlapResult struct {
	Overlap           bool           `json:"overlap"`
	ConflictingLesson *models.Lesson `json:"conflicting_lesson,omitempty"`
}

// DetectOverlap checks the candidate against the existing lessons of the same
// student on the same day and returns the first conflict in input order.
// excludeID skips the lesson being edited; 0 excludes nothing.
func DetectOverlap(candidate models.Lesson, existing []models.Lesson, excludeID int64) OverlapResult {
	if candidate.StudentID == 0 {
		return OverlapResult{}
	}

	candidateInterval := LessonInterval(candidate)

	for i := range existing {
		lesson := existing[i]

		if lesson.StudentID != candidate.StudentID {
			continue
		}
		if excludeID != 0 && lesson.ID == excludeID {
			continue
		}
		if !SameDay(lesson.LessonDate, candidate.LessonDate) {
			continue
		}

		if candidateInterval.Overlaps(LessonInterval(lesson)) {
			return OverlapResult{Overlap: true, ConflictingLesson: &lesson}
		}
	}

	return OverlapResult{}
}
