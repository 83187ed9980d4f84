package scheduling

import (
	"errors"
	"testing"

	"feedyourmind-app/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenHourPackage() *models.Package {
	return &models.Package{ID: 10, StudentIDs: []int64{7}, TotalHours: hours("10"), Status: models.PackageInProgress}
}

func chargedThreeAndFour() []models.Lesson {
	return []models.Lesson{
		packageLesson(1, 10, "3"),
		packageLesson(2, 10, "4"),
	}
}

func TestEvaluateOverflow(t *testing.T) {
	tests := []struct {
		name          string
		duration      string
		wantOverflow  bool
		wantCharge    string
		wantOverflown string
	}{
		{"fits exactly", "3", false, "", ""},
		{"fits", "1.5", false, "", ""},
		{"exceeds", "5", true, "3", "2"},
		{"exceeds by half an hour", "3.5", true, "3", "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := packageLesson(0, 10, tt.duration)
			got := EvaluateOverflow(candidate, tenHourPackage(), chargedThreeAndFour(), nil)

			assert.Equal(t, tt.wantOverflow, got.Overflow)
			if !tt.wantOverflow {
				return
			}
			assert.Equal(t, tt.wantCharge, got.ChargeableHours.String())
			assert.Equal(t, tt.wantOverflown, got.OverflowHours.String())
			assert.True(t, got.ChargeableHours.Add(got.OverflowHours).Equal(candidate.Duration))
			assert.True(t, got.TotalRequestedHours.Equal(candidate.Duration))
		})
	}
}

func TestEvaluateOverflowEditRecredit(t *testing.T) {
	original := packageLesson(2, 10, "4")

	t.Run("unchanged duration never overflows", func(t *testing.T) {
		edited := original
		got := EvaluateOverflow(edited, tenHourPackage(), chargedThreeAndFour(), &original)
		assert.False(t, got.Overflow)
	})

	t.Run("unchanged duration on a fully consumed package", func(t *testing.T) {
		full := append(chargedThreeAndFour(), packageLesson(3, 10, "3"))
		got := EvaluateOverflow(original, tenHourPackage(), full, &original)
		assert.False(t, got.Overflow)
	})

	t.Run("growing beyond the re-credited hours overflows", func(t *testing.T) {
		edited := original
		edited.Duration = hours("8")
		got := EvaluateOverflow(edited, tenHourPackage(), chargedThreeAndFour(), &original)

		require.True(t, got.Overflow)
		assert.Equal(t, "7", got.ChargeableHours.String())
		assert.Equal(t, "1", got.OverflowHours.String())
	})
}

func TestEvaluateOverflowNotApplicable(t *testing.T) {
	individual := lessonAt(0, 7, "2024-05-10", "09:00", "50")
	assert.False(t, EvaluateOverflow(individual, tenHourPackage(), chargedThreeAndFour(), nil).Overflow)

	noPackageID := packageLesson(0, 10, "50")
	noPackageID.PackageID = nil
	assert.False(t, EvaluateOverflow(noPackageID, tenHourPackage(), chargedThreeAndFour(), nil).Overflow)

	assert.False(t, EvaluateOverflow(packageLesson(0, 10, "50"), nil, chargedThreeAndFour(), nil).Overflow)
}

func TestEvaluateOverflowExhaustedPackage(t *testing.T) {
	full := append(chargedThreeAndFour(), packageLesson(3, 10, "3"))
	got := EvaluateOverflow(packageLesson(0, 10, "2"), tenHourPackage(), full, nil)

	require.True(t, got.Overflow)
	assert.True(t, got.ChargeableHours.IsZero())
	assert.Equal(t, "2", got.OverflowHours.String())
}

func TestEvaluateOverflowOverdrawnPackage(t *testing.T) {
	pkg := &models.Package{ID: 10, StudentIDs: []int64{7}, TotalHours: hours("2"), Status: models.PackageInProgress}
	charged := []models.Lesson{packageLesson(1, 10, "3")}

	candidate := packageLesson(0, 10, "1")
	candidate.StartTime = clock("10:00")
	got := EvaluateOverflow(candidate, pkg, charged, nil)

	require.True(t, got.Overflow)
	assert.True(t, got.ChargeableHours.IsZero())
	assert.Equal(t, "1", got.OverflowHours.String())
	assert.True(t, got.ChargeableHours.Add(got.OverflowHours).Equal(candidate.Duration))

	res, err := ResolveOverflow(candidate, got, StrategyUsePackage)
	require.NoError(t, err)
	assert.True(t, res.CappedLesson.Duration.IsZero())
	assert.Equal(t, "1", res.OverflowLesson.Duration.String())
	assert.Equal(t, "25", res.OverflowLesson.Price.String())
	assert.Equal(t, "10:00:00", *res.OverflowLesson.StartTime)
}

func TestResolveOverflowPastMidnight(t *testing.T) {
	pkg := &models.Package{ID: 10, StudentIDs: []int64{7}, TotalHours: hours("3"), Status: models.PackageInProgress}

	late := packageLesson(0, 10, "4")
	late.StartTime = clock("22:00")
	result := EvaluateOverflow(late, pkg, nil, nil)
	require.True(t, result.Overflow)

	for _, strategy := range Strategies() {
		_, err := ResolveOverflow(late, result, strategy)
		assert.ErrorIs(t, err, ErrOverflowPastMidnight, string(strategy))
	}

	// ending exactly at midnight leaves no room on the same date either
	late.StartTime = clock("21:00")
	_, err := ResolveOverflow(late, EvaluateOverflow(late, pkg, nil, nil), StrategyUsePackage)
	assert.ErrorIs(t, err, ErrOverflowPastMidnight)

	late.StartTime = clock("20:30")
	res, err := ResolveOverflow(late, EvaluateOverflow(late, pkg, nil, nil), StrategyUsePackage)
	require.NoError(t, err)
	assert.Equal(t, "23:30:00", *res.OverflowLesson.StartTime)
}

func TestResolveOverflowUsePackage(t *testing.T) {
	candidate := packageLesson(0, 10, "5")
	candidate.StartTime = clock("15:00")
	candidate.ProfessorID = 3
	result := EvaluateOverflow(candidate, tenHourPackage(), chargedThreeAndFour(), nil)

	res, err := ResolveOverflow(candidate, result, StrategyUsePackage)
	require.NoError(t, err)

	assert.Equal(t, StrategyUsePackage, res.Strategy)
	assert.Equal(t, "3", res.CappedLesson.Duration.String())
	assert.Equal(t, "75", res.CappedLesson.TotalPayment.String())
	assert.True(t, res.CappedLesson.ChargedTo(10))

	require.NotNil(t, res.OverflowLesson)
	overflow := res.OverflowLesson
	assert.Equal(t, "2", overflow.Duration.String())
	assert.False(t, overflow.IsPackage)
	assert.Nil(t, overflow.PackageID)
	assert.Equal(t, "50", overflow.TotalPayment.String())
	assert.Equal(t, "50", overflow.Price.String())
	assert.Equal(t, "25", overflow.HourlyRate.String())
	assert.Equal(t, int64(3), overflow.ProfessorID)
	assert.Equal(t, "18:00:00", *overflow.StartTime)
	assert.False(t, LessonInterval(res.CappedLesson).Overlaps(LessonInterval(*overflow)))
	assert.True(t, SameDay(overflow.LessonDate, candidate.LessonDate))
	assert.False(t, overflow.IsPaid)

	assert.Nil(t, res.NewPackage)
	assert.Nil(t, res.PendingLesson)
	assert.True(t, candidate.Duration.Equal(hours("5")), "candidate must not be modified")
}

func TestResolveOverflowCreateNewPackage(t *testing.T) {
	candidate := packageLesson(0, 10, "5")
	result := EvaluateOverflow(candidate, tenHourPackage(), chargedThreeAndFour(), nil)

	res, err := ResolveOverflow(candidate, result, StrategyCreateNewPackage)
	require.NoError(t, err)

	assert.Equal(t, "3", res.CappedLesson.Duration.String())
	assert.Nil(t, res.OverflowLesson)

	require.NotNil(t, res.NewPackage)
	assert.Equal(t, []int64{7}, res.NewPackage.StudentIDs)
	assert.Equal(t, "2", res.NewPackage.TotalHours.String())
	assert.Equal(t, models.PackageInProgress, res.NewPackage.Status)
	assert.False(t, res.NewPackage.IsPaid)

	require.NotNil(t, res.PendingLesson)
	assert.Equal(t, "2", res.PendingLesson.Duration.String())
	assert.True(t, res.PendingLesson.IsPackage)
	assert.Nil(t, res.PendingLesson.PackageID)
	// no start time reads as midnight, so the remainder follows the 3 capped hours
	assert.Equal(t, "03:00:00", *res.PendingLesson.StartTime)
	assert.False(t, LessonInterval(res.CappedLesson).Overlaps(LessonInterval(*res.PendingLesson)))
}

func TestResolveOverflowExhaustedPackageKeepsStart(t *testing.T) {
	candidate := packageLesson(0, 10, "2")
	candidate.StartTime = clock("09:30")
	full := append(chargedThreeAndFour(), packageLesson(3, 10, "3"))
	result := EvaluateOverflow(candidate, tenHourPackage(), full, nil)

	res, err := ResolveOverflow(candidate, result, StrategyUsePackage)
	require.NoError(t, err)

	assert.True(t, res.CappedLesson.Duration.IsZero())
	assert.True(t, res.CappedLesson.TotalPayment.IsZero())
	assert.Equal(t, "2", res.OverflowLesson.Duration.String())
	assert.Equal(t, "09:30:00", *res.OverflowLesson.StartTime)
}

func TestResolveOverflowErrors(t *testing.T) {
	candidate := packageLesson(0, 10, "5")
	result := EvaluateOverflow(candidate, tenHourPackage(), chargedThreeAndFour(), nil)

	_, err := ResolveOverflow(candidate, result, Strategy("split_evenly"))
	assert.True(t, errors.Is(err, ErrUnknownStrategy))

	_, err = ResolveOverflow(candidate, OverflowResult{}, StrategyUsePackage)
	assert.ErrorIs(t, err, ErrNoOverflow)
}

func TestStrategies(t *testing.T) {
	assert.Equal(t, []Strategy{StrategyUsePackage, StrategyCreateNewPackage}, Strategies())
}
