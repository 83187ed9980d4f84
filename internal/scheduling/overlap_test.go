package scheduling

import (
	"testing"

	"feedyourmind-app/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectOverlap(t *testing.T) {
	existing := []models.Lesson{
		lessonAt(1, 5, "2024-05-10", "09:00", "1.5"),
	}

	t.Run("adjacent lesson does not overlap", func(t *testing.T) {
		result := DetectOverlap(lessonAt(0, 5, "2024-05-10", "10:30", "1"), existing, 0)
		assert.False(t, result.Overlap)
		assert.Nil(t, result.ConflictingLesson)
	})

	t.Run("starting inside another lesson overlaps", func(t *testing.T) {
		result := DetectOverlap(lessonAt(0, 5, "2024-05-10", "09:30", "1"), existing, 0)
		require.True(t, result.Overlap)
		assert.Equal(t, int64(1), result.ConflictingLesson.ID)
	})

	t.Run("10:00 start still inside the 1.5h lesson", func(t *testing.T) {
		result := DetectOverlap(lessonAt(0, 5, "2024-05-10", "10:00", "1"), existing, 0)
		assert.True(t, result.Overlap)
	})

	t.Run("other student is exempt", func(t *testing.T) {
		result := DetectOverlap(lessonAt(0, 6, "2024-05-10", "09:30", "1"), existing, 0)
		assert.False(t, result.Overlap)
	})

	t.Run("other day is exempt", func(t *testing.T) {
		result := DetectOverlap(lessonAt(0, 5, "2024-05-11", "09:30", "1"), existing, 0)
		assert.False(t, result.Overlap)
	})

	t.Run("no student assigned yet", func(t *testing.T) {
		result := DetectOverlap(lessonAt(0, 0, "2024-05-10", "09:30", "1"), existing, 0)
		assert.False(t, result.Overlap)
	})

	t.Run("edited lesson never conflicts with itself", func(t *testing.T) {
		edited := lessonAt(1, 5, "2024-05-10", "09:15", "2")
		result := DetectOverlap(edited, existing, 1)
		assert.False(t, result.Overlap)
	})
}

func TestDetectOverlapFirstMatchWins(t *testing.T) {
	existing := []models.Lesson{
		lessonAt(3, 5, "2024-05-10", "12:00", "1"),
		lessonAt(2, 5, "2024-05-10", "10:00", "1"),
		lessonAt(1, 5, "2024-05-10", "09:00", "1"),
	}

	result := DetectOverlap(lessonAt(0, 5, "2024-05-10", "09:00", "4"), existing, 0)

	require.True(t, result.Overlap)
	assert.Equal(t, int64(3), result.ConflictingLesson.ID)
}

func TestDetectOverlapSymmetry(t *testing.T) {
	pairs := [][2]models.Lesson{
		{lessonAt(1, 5, "2024-05-10", "09:00", "1"), lessonAt(2, 5, "2024-05-10", "09:30", "1")},
		{lessonAt(1, 5, "2024-05-10", "09:00", "1"), lessonAt(2, 5, "2024-05-10", "10:00", "1")},
		{lessonAt(1, 5, "2024-05-10", "08:00", "3"), lessonAt(2, 5, "2024-05-10", "09:00", "0.5")},
		{lessonAt(1, 5, "2024-05-10", "14:00", "1"), lessonAt(2, 5, "2024-05-10", "09:00", "2")},
	}

	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		assert.Equal(t,
			DetectOverlap(a, []models.Lesson{b}, 0).Overlap,
			DetectOverlap(b, []models.Lesson{a}, 0).Overlap,
		)
	}
}

func TestDetectOverlapDoesNotMutateInput(t *testing.T) {
	existing := []models.Lesson{lessonAt(1, 5, "2024-05-10", "09:00", "1")}

	result := DetectOverlap(lessonAt(0, 5, "2024-05-10", "09:30", "1"), existing, 0)
	require.True(t, result.Overlap)

	result.ConflictingLesson.Duration = hours("9")
	assert.Equal(t, "1", existing[0].Duration.String())
}
