package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/anvaya/anvaya-go/internal/middleware"
)

// Routes collects the handlers and middleware the router mounts.
type Routes struct {
	Auth         *AuthHandler
	Events       *EventHandler
	Achievements *AchievementHandler
	Classrooms   *ClassroomHandler

	JWTSecret    string
	LoginLimiter func(http.Handler) http.Handler
}

// NewRouter wires every endpoint. Routes behind the token gate are rejected
// with 401 before any handler runs.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/events", rt.Events.HandleListAll)
	r.Get("/events/category/{category}", rt.Events.HandleListByCategory)

	r.Group(func(r chi.Router) {
		if rt.LoginLimiter != nil {
			r.Use(rt.LoginLimiter)
		}
		r.Post("/login", rt.Auth.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(rt.JWTSecret))

		r.Get("/me", rt.Auth.HandleMe)

		r.Get("/fac_events/{facultyId}", rt.Events.HandleListForFaculty)
		r.Post("/fac_add_events/{facultyId}", rt.Events.HandleCreate)
		r.Post("/events/{eventId}/register", rt.Events.HandleRegister)

		r.Get("/student_achievements/{studentId}", rt.Achievements.HandleListForStudent)
		r.Post("/student_add_achievement/{studentId}", rt.Achievements.HandleSubmit)
		r.Get("/student_events_verify/{teacherId}", rt.Achievements.HandleListForReview)
		r.Post("/verify_participation/{achievementId}", rt.Achievements.HandleVerify)
		r.Get("/student_events/{studentId}", rt.Events.HandleListForStudent)

		r.Get("/classrooms", rt.Classrooms.HandleList)
		r.Get("/classrooms/available", rt.Classrooms.HandleAvailable)
		r.Get("/bookings", rt.Classrooms.HandleListBookings)
		r.Post("/bookings/request", rt.Classrooms.HandleRequestBooking)
		r.Post("/bookings/{bookingId}/approve", rt.Classrooms.HandleApprove)
		r.Post("/bookings/{bookingId}/reject", rt.Classrooms.HandleReject)
		r.Get("/timetable", rt.Classrooms.HandleDaySchedule)
		r.Get("/timetable/by-year", rt.Classrooms.HandleSectionTimetable)
	})

	return r
}
