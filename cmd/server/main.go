package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/LaviAzankot/CharityChick/internal/auth"
	"github.com/LaviAzankot/CharityChick/internal/config"
	"github.com/LaviAzankot/CharityChick/internal/handlers"
	"github.com/LaviAzankot/CharityChick/internal/logging"
	"github.com/LaviAzankot/CharityChick/internal/mail"
	"github.com/LaviAzankot/CharityChick/internal/render"
	"github.com/LaviAzankot/CharityChick/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("loading configuration")
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logging.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("opening database")
	}
	defer st.Close()

	if err := st.RunMigrations(); err != nil {
		logging.Fatal().Err(err).Msg("running migrations")
	}

	sessions := auth.NewManager(st)

	// Sweep expired sessions in the background.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := sessions.CleanExpired(); err != nil {
				logging.Error().Err(err).Msg("session cleanup")
			}
		}
	}()

	if !cfg.Mail.Enabled() {
		logging.Warn().Msg("mail relay not configured, contact form sends will fail")
	}

	rn := render.New(cfg.TemplateDir)
	authHandler := handlers.NewAuthHandler(sessions, rn)
	postHandler := handlers.NewPostHandler(st, rn)
	pageHandler := handlers.NewPageHandler(mail.NewRelay(cfg.Mail), rn)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(sessions.LoadUser)

	r.Get("/", postHandler.Home)
	r.Post("/", postHandler.Home)
	r.Get("/register", authHandler.Register)
	r.Post("/register", authHandler.Register)
	r.Get("/login", authHandler.Login)
	r.Post("/login", authHandler.Login)
	r.Get("/logout", authHandler.Logout)
	r.Get("/posts/{id}", postHandler.ShowPost)
	r.Post("/posts/{id}", postHandler.ShowPost)
	r.Get("/about", pageHandler.About)
	r.Get("/contact", pageHandler.Contact)
	r.Post("/contact", pageHandler.Contact)

	// Routes behind the login gate.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/post", postHandler.CreatePost)
		r.Post("/post", postHandler.CreatePost)
		r.Get("/post/{id}", postHandler.EditPost)
		r.Post("/post/{id}", postHandler.EditPost)
		r.Get("/delete_post/{id}", postHandler.DeletePost)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		rn.NotFound(w)
	})

	logging.Info().Str("port", cfg.Port).Msg("server started")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logging.Fatal().Err(err).Msg("server stopped")
	}
}
