package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"feedyourmind-app/internal/calendar"
	"feedyourmind-app/internal/models"
	"feedyourmind-app/internal/repository"
	"feedyourmind-app/internal/scheduling"
	"feedyourmind-app/internal/service"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

type Handler struct {
	lessonService   service.LessonService
	calendarService service.CalendarService
	log             *zap.Logger
}

func NewHandler(
	lessonService service.LessonService,
	calendarService service.CalendarService,
	log *zap.Logger,
) *Handler {
	return &Handler{
		lessonService:   lessonService,
		calendarService: calendarService,
		log:             log.Named("web"),
	}
}

// Routes регистрирует все эндпоинты API
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/calendar", h.CalendarAPI)
	mux.HandleFunc("GET /api/calendar/day", h.CalendarDayAPI)
	mux.HandleFunc("GET /api/packages/{id}/availability", h.PackageAvailabilityAPI)
	mux.HandleFunc("POST /api/lessons", h.SaveLessonAPI)
	mux.HandleFunc("POST /api/lessons/check-overlap", h.CheckOverlapAPI)
	mux.HandleFunc("POST /api/lessons/check-overflow", h.CheckOverflowAPI)
	mux.HandleFunc("POST /api/lessons/resolve-overflow", h.ResolveOverflowAPI)

	return mux
}

// Структуры для JSON API ответа
type CalendarAPIResponse struct {
	Month     string            `json:"month"`
	Mode      calendar.ViewMode `json:"mode"`
	PrevMonth string            `json:"prev_month"`
	NextMonth string            `json:"next_month"`
	Total     decimal.Decimal   `json:"total"`
	Stats     calendar.Stats    `json:"stats"`
	Days      []CalendarDayJSON `json:"days"`
}

type CalendarDayJSON struct {
	Date    string           `json:"date"`
	Caption string           `json:"caption"`
	Total   decimal.Decimal  `json:"total"`
	Labels  []calendar.Label `json:"labels"`
	Entries []calendar.Entry `json:"entries"`
}

// CalendarAPI возвращает календарь платежей за месяц
func (h *Handler) CalendarAPI(w http.ResponseWriter, r *http.Request) {
	mode, err := calendar.ParseViewMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	month := time.Now()
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, err = time.ParseInLocation(monthLayout, monthStr, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must look like 2024-05")
			return
		}
	}

	ledger, err := h.calendarService.Month(r.Context(), month)
	if err != nil {
		h.internalError(w, "build calendar", err)
		return
	}

	start := ledger.Month()
	response := CalendarAPIResponse{
		Month:     start.Format(monthLayout),
		Mode:      mode,
		PrevMonth: start.AddDate(0, -1, 0).Format(monthLayout),
		NextMonth: start.AddDate(0, 1, 0).Format(monthLayout),
		Total:     ledger.Total(mode),
		Stats:     ledger.Stats(),
		Days:      []CalendarDayJSON{},
	}

	for _, day := range ledger.Days() {
		if len(day.Entries(mode)) == 0 {
			continue
		}
		response.Days = append(response.Days, dayJSON(day, mode))
	}

	writeJSON(w, http.StatusOK, response)
}

// CalendarDayAPI возвращает записи выбранного дня
func (h *Handler) CalendarDayAPI(w http.ResponseWriter, r *http.Request) {
	mode, err := calendar.ParseViewMode(r.URL.Query().Get("mode"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("date"), time.Local)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must look like 2024-05-10")
		return
	}

	ledger, err := h.calendarService.Month(r.Context(), date)
	if err != nil {
		h.internalError(w, "build calendar", err)
		return
	}

	writeJSON(w, http.StatusOK, dayJSON(ledger.Day(date), mode))
}

func dayJSON(day calendar.Day, mode calendar.ViewMode) CalendarDayJSON {
	entries := day.Entries(mode)
	if entries == nil {
		entries = []calendar.Entry{}
	}
	labels := day.Labels(mode)
	if labels == nil {
		labels = []calendar.Label{}
	}

	return CalendarDayJSON{
		Date:    day.Date.Format(dateLayout),
		Caption: day.Caption(),
		Total:   day.Total(mode),
		Labels:  labels,
		Entries: entries,
	}
}

// LessonPayload is the lesson form as the client sends it.
type LessonPayload struct {
	ID          int64           `json:"id" validate:"gte=0"`
	ProfessorID int64           `json:"professor_id" validate:"gte=0"`
	StudentID   int64           `json:"student_id" validate:"required,gt=0"`
	LessonDate  string          `json:"lesson_date" validate:"required,datetime=2006-01-02"`
	StartTime   *string         `json:"start_time" validate:"omitempty,clock"`
	Duration    decimal.Decimal `json:"duration"`
	IsPackage   bool            `json:"is_package"`
	PackageID   *int64          `json:"package_id" validate:"required_if=IsPackage true"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	Price       decimal.Decimal `json:"price"`
	IsPaid      bool            `json:"is_paid"`
	PaymentDate *string         `json:"payment_date" validate:"omitempty,datetime=2006-01-02"`
}

func (p LessonPayload) toLesson() (models.Lesson, error) {
	date, err := time.ParseInLocation(dateLayout, p.LessonDate, time.Local)
	if err != nil {
		return models.Lesson{}, fmt.Errorf("lesson_date must look like 2024-05-10")
	}
	if !p.Duration.IsPositive() {
		return models.Lesson{}, fmt.Errorf("duration must be a positive number of hours")
	}
	if p.HourlyRate.IsNegative() || p.Price.IsNegative() {
		return models.Lesson{}, fmt.Errorf("amounts must not be negative")
	}

	lesson := models.Lesson{
		ID:          p.ID,
		ProfessorID: p.ProfessorID,
		StudentID:   p.StudentID,
		LessonDate:  date,
		StartTime:   p.StartTime,
		Duration:    p.Duration,
		IsPackage:   p.IsPackage,
		PackageID:   p.PackageID,
		HourlyRate:  p.HourlyRate,
		Price:       p.Price,
		IsPaid:      p.IsPaid,
	}

	if p.PaymentDate != nil && *p.PaymentDate != "" {
		paid, err := time.ParseInLocation(dateLayout, *p.PaymentDate, time.Local)
		if err != nil {
			return models.Lesson{}, fmt.Errorf("payment_date must look like 2024-05-10")
		}
		lesson.PaymentDate = &paid
	}
	return lesson, nil
}

type checkOverlapRequest struct {
	Lesson    LessonPayload `json:"lesson"`
	ExcludeID int64         `json:"exclude_id"`
}

// CheckOverlapAPI проверяет пересечение занятия с другими занятиями ученика
func (h *Handler) CheckOverlapAPI(w http.ResponseWriter, r *http.Request) {
	var req checkOverlapRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lesson, err := req.Lesson.toLesson()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.lessonService.CheckOverlap(r.Context(), lesson, req.ExcludeID)
	if err != nil {
		h.internalError(w, "check overlap", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CheckOverflowAPI reports how a package lesson splits against the hours
// left in its package.
func (h *Handler) CheckOverflowAPI(w http.ResponseWriter, r *http.Request) {
	var payload LessonPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	lesson, err := payload.toLesson()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.lessonService.EvaluateOverflow(r.Context(), lesson)
	if err != nil {
		h.internalError(w, "check overflow", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// PackageAvailabilityAPI возвращает остаток часов пакета
func (h *Handler) PackageAvailabilityAPI(w http.ResponseWriter, r *http.Request) {
	packageID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid package ID")
		return
	}

	var originalLessonID int64
	if s := r.URL.Query().Get("original_lesson_id"); s != "" {
		if originalLessonID, err = strconv.ParseInt(s, 10, 64); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid lesson ID")
			return
		}
	}

	availability, err := h.lessonService.PackageAvailability(r.Context(), packageID, originalLessonID)
	if errors.Is(err, repository.ErrLessonNotFound) {
		writeError(w, http.StatusNotFound, "lesson not found")
		return
	}
	if err != nil {
		h.internalError(w, "package availability", err)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}

// SaveLessonAPI создает или обновляет занятие
func (h *Handler) SaveLessonAPI(w http.ResponseWriter, r *http.Request) {
	var payload LessonPayload
	if !decodeJSON(w, r, &payload) {
		return
	}

	lesson, err := payload.toLesson()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created := lesson.ID == 0
	if err := h.lessonService.SaveLesson(r.Context(), &lesson); err != nil {
		h.writeSaveError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, lesson)
}

type resolveOverflowRequest struct {
	Lesson   LessonPayload       `json:"lesson"`
	Strategy scheduling.Strategy `json:"strategy" validate:"required"`
}

// ResolveOverflowAPI сохраняет занятие по выбранной стратегии
func (h *Handler) ResolveOverflowAPI(w http.ResponseWriter, r *http.Request) {
	var req resolveOverflowRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lesson, err := req.Lesson.toLesson()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.lessonService.ResolveOverflow(r.Context(), lesson, req.Strategy)
	if errors.Is(err, scheduling.ErrUnknownStrategy) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// writeSaveError maps the rule violations of a lesson write to 409 so the
// form can show them and retry. A package that cannot take the lesson is a
// bad request.
func (h *Handler) writeSaveError(w http.ResponseWriter, err error) {
	var overlapErr *service.OverlapError
	var overflowErr *service.OverflowError
	var mismatchErr *service.PackageMismatchError

	switch {
	case errors.As(err, &overlapErr):
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "overlap",
			"message": overlapErr.Error(),
			"overlap": overlapErr.Result,
		})
	case errors.As(err, &overflowErr):
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":      "package_overflow",
			"message":    overflowErr.Error(),
			"package_id": overflowErr.PackageID,
			"overflow":   overflowErr.Result,
			"strategies": overflowErr.Strategies,
		})
	case errors.As(err, &mismatchErr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":      "package_mismatch",
			"message":    mismatchErr.Error(),
			"package_id": mismatchErr.PackageID,
			"reason":     mismatchErr.Reason,
		})
	case errors.Is(err, scheduling.ErrOverflowPastMidnight):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrLessonNotFound),
		errors.Is(err, repository.ErrPackageNotFound),
		errors.Is(err, repository.ErrStudentNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.internalError(w, "save lesson", err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.log.Error(op+" failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeValidationError(w, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
