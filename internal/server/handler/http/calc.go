package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/GophDate/internal/datemath"
	"github.com/atinyakov/GophDate/internal/holiday"
	"github.com/atinyakov/GophDate/internal/middleware"
)

// CalcService runs date calculations on behalf of a user.
type CalcService interface {
	Difference(ctx context.Context, userID int64, a, b string) (datemath.Diff, error)
	Weekday(ctx context.Context, userID int64, date string) (datemath.Weekday, error)
	AddDays(ctx context.Context, userID int64, date string, n int) (datemath.Shifted, error)
	Age(ctx context.Context, userID int64, birth string) (datemath.Age, error)
	Calendar(ctx context.Context, userID int64, year, month int) (datemath.Month, error)
	LeapYear(ctx context.Context, userID int64, year int) (bool, error)
	WorkingDays(ctx context.Context, userID int64, start, end string) (datemath.WorkDays, error)
	CheckHoliday(ctx context.Context, userID int64, date string) (bool, string, error)
	Holidays(year int) []holiday.Holiday
}

// CalcHandler exposes date calculations.
type CalcHandler struct {
	CalcService CalcService
}

type rangeRequest struct {
	Date1 string `json:"date1"`
	Date2 string `json:"date2"`
}

type dateRequest struct {
	Date string `json:"date"`
	Days int    `json:"days"`
}

type ageRequest struct {
	BirthDate string `json:"birth_date"`
}

type calendarRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type workdaysRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// HolidayCheck is the answer of CheckHoliday.
type HolidayCheck struct {
	Date      string `json:"date"`
	IsHoliday bool   `json:"is_holiday"`
	Name      string `json:"name,omitempty"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return false
	}
	return true
}

func userID(r *http.Request) int64 {
	return middleware.UserFromContext(r.Context()).ID
}

// Difference handles POST /api/calc/difference.
func (h *CalcHandler) Difference(w http.ResponseWriter, r *http.Request) {
	var req rangeRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.CalcService.Difference(r.Context(), userID(r), req.Date1, req.Date2)
	respond(w, res, err)
}

// Weekday handles POST /api/calc/weekday.
func (h *CalcHandler) Weekday(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.CalcService.Weekday(r.Context(), userID(r), req.Date)
	respond(w, res, err)
}

// AddDays handles POST /api/calc/add.
func (h *CalcHandler) AddDays(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.CalcService.AddDays(r.Context(), userID(r), req.Date, req.Days)
	respond(w, res, err)
}

// Age handles POST /api/calc/age.
func (h *CalcHandler) Age(w http.ResponseWriter, r *http.Request) {
	var req ageRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.CalcService.Age(r.Context(), userID(r), req.BirthDate)
	respond(w, res, err)
}

// Calendar handles POST /api/calc/calendar.
func (h *CalcHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	var req calendarRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.CalcService.Calendar(r.Context(), userID(r), req.Year, req.Month)
	respond(w, res, err)
}

// WorkingDays handles POST /api/calc/workdays.
func (h *CalcHandler) WorkingDays(w http.ResponseWriter, r *http.Request) {
	var req workdaysRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.CalcService.WorkingDays(r.Context(), userID(r), req.StartDate, req.EndDate)
	respond(w, res, err)
}

func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		http.Error(w, "invalid year", http.StatusBadRequest)
		return 0, false
	}
	return year, true
}

// LeapYear handles GET /api/calc/leap/{year}.
func (h *CalcHandler) LeapYear(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	leap, err := h.CalcService.LeapYear(r.Context(), userID(r), year)
	respond(w, map[string]any{"year": year, "is_leap": leap}, err)
}

// Holidays handles GET /api/holidays/{year}.
func (h *CalcHandler) Holidays(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.CalcService.Holidays(year))
}

// CheckHoliday handles GET /api/holidays/check/{date}.
func (h *CalcHandler) CheckHoliday(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	ok, name, err := h.CalcService.CheckHoliday(r.Context(), userID(r), date)
	respond(w, HolidayCheck{Date: date, IsHoliday: ok, Name: name}, err)
}
