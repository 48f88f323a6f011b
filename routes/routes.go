package routes

import (
	"net/http"

	_ "github.com/Dosada05/battle-system/docs"
	"github.com/Dosada05/battle-system/handlers"
	"github.com/Dosada05/battle-system/middleware"
	"github.com/Dosada05/battle-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Tournament  *handlers.TournamentHandler
	Battle      *handlers.BattleHandler
	Participant *handlers.ParticipantHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	LoginLimiter   *middleware.RateLimiter
	// Metrics отдает /metrics. nil - маршрут не регистрируется.
	Metrics http.Handler
}

func SetupRoutes(router chi.Router, opts Options, h Handlers) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics)
	}
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	authenticate := middleware.Authenticate(opts.JWTSecret)
	adminOnly := middleware.Authorize(models.RoleAdmin)

	loginLimiter := opts.LoginLimiter
	if loginLimiter == nil {
		loginLimiter = middleware.NewLoginRateLimiter()
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.With(loginLimiter.Handler).Post("/auth/login", h.Auth.Login)

		r.Route("/tournament", func(r chi.Router) {
			r.Get("/", h.Tournament.GetTournament)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, adminOnly)
				r.Post("/", h.Tournament.CreateTournament)
				r.Delete("/", h.Tournament.DeleteTournament)
			})
		})

		r.Route("/battles/{battleID}", func(r chi.Router) {
			r.Get("/", h.Battle.GetBattle)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, middleware.Authorize(models.RoleAdmin, models.RoleJudge))
				r.Post("/participants/{participantID}/votes", h.Battle.Vote)
			})

			r.Group(func(r chi.Router) {
				r.Use(authenticate, adminOnly)
				r.Post("/winner", h.Battle.SetWinner)
				r.Post("/reset", h.Battle.Reset)
			})
		})

		r.Route("/participants", func(r chi.Router) {
			r.Get("/", h.Participant.ListParticipants)
			r.Get("/{participantID}", h.Participant.GetParticipant)
			r.With(authenticate, adminOnly).Post("/{participantID}/phoenix", h.Participant.ActivatePhoenix)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/me", h.User.GetMe)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Post("/judge", h.User.CreateJudge)
				r.Post("/admin", h.User.CreateAdmin)
				r.Post("/screen", h.User.CreateScreen)
				r.Get("/role/{role}", h.User.ListByRole)
				r.Get("/{userID}", h.User.GetUserByID)
				r.Delete("/{userID}", h.User.DeleteUser)
			})
		})
	})
}
