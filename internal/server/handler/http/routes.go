package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/GophDate/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// loopback API.
//
// Routes:
//
//	POST /api/register                → authHandler.Register
//	POST /api/login                   → authHandler.Login
//	POST /api/calc/difference         → calcHandler.Difference
//	POST /api/calc/weekday            → calcHandler.Weekday
//	POST /api/calc/add                → calcHandler.AddDays
//	POST /api/calc/age                → calcHandler.Age
//	POST /api/calc/calendar           → calcHandler.Calendar
//	POST /api/calc/workdays           → calcHandler.WorkingDays
//	GET  /api/calc/leap/{year}        → calcHandler.LeapYear
//	GET  /api/holidays/{year}         → calcHandler.Holidays
//	GET  /api/holidays/check/{date}   → calcHandler.CheckHoliday
//	GET  /api/history                 → historyHandler.List
//	GET  /api/history/stats           → historyHandler.Stats
//	GET  /api/history/export          → historyHandler.Export
//	POST /api/history/import          → historyHandler.Import
//
// Middleware chain (applied in order):
//  1. Recoverer: turns panics into 500
//  2. AllowContentType: rejects bodies that are neither JSON nor CSV
//  3. WithRequestLogging(logger): logs incoming requests
//  4. TokenAuth(tokens): resolves the caller, guest without a token
func NewRouter(
	authHandler *AuthHandler,
	calcHandler *CalcHandler,
	historyHandler *HistoryHandler,
	tokens middleware.TokenParser,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.AllowContentType("application/json", "text/csv"))
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.TokenAuth(tokens))

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Route("/calc", func(r chi.Router) {
			r.Post("/difference", calcHandler.Difference)
			r.Post("/weekday", calcHandler.Weekday)
			r.Post("/add", calcHandler.AddDays)
			r.Post("/age", calcHandler.Age)
			r.Post("/calendar", calcHandler.Calendar)
			r.Post("/workdays", calcHandler.WorkingDays)
			r.Get("/leap/{year}", calcHandler.LeapYear)
		})

		r.Get("/holidays/{year}", calcHandler.Holidays)
		r.Get("/holidays/check/{date}", calcHandler.CheckHoliday)

		r.Route("/history", func(r chi.Router) {
			r.Get("/", historyHandler.List)
			r.Get("/stats", historyHandler.Stats)
			r.Get("/export", historyHandler.Export)
			r.Post("/import", historyHandler.Import)
		})
	})

	return r
}
