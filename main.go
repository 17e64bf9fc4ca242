package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	cfg "github.com/example/htmltutor/internal/config"
)

// App holds the services shared by all handlers. Everything is constructed
// once in main and injected; there is no package-level mutable state.
type App struct {
	Config   *cfg.Config
	Store    *UserStore
	Tokens   *TokenService
	Revoked  *Blacklist
	Tutor    *Tutor
	Validate *validator.Validate
}

func NewApp(c *cfg.Config, gen Generator) *App {
	return &App{
		Config:   c,
		Store:    NewUserStore(),
		Tokens:   NewTokenService(c.JwtSecret, c.TokenTTL),
		Revoked:  NewBlacklist(),
		Tutor:    NewTutor(gen, c.MaxConcurrentGenerations, c.GenerationTimeout),
		Validate: validator.New(),
	}
}

// Router wires every route. CORS is fully open; restricting origins is a
// deployment concern, not part of the API contract.
func (a *App) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(RequestID)
	r.Use(a.Logging)

	r.HandleFunc("/", a.HandleRoot).Methods("GET")
	r.HandleFunc("/health", a.HandleHealth).Methods("GET")

	r.HandleFunc("/register", a.HandleRegister).Methods("POST")
	r.HandleFunc("/login", a.HandleLogin).Methods("POST")
	r.HandleFunc("/logout", a.HandleLogout).Methods("POST")

	r.HandleFunc("/ask", a.HandleAsk).Methods("POST")
	r.HandleFunc("/quiz", a.HandleQuiz).Methods("POST")
	r.HandleFunc("/review", a.HandleReview).Methods("POST")

	protected := r.NewRoute().Subrouter()
	protected.Use(a.Authenticate)
	protected.HandleFunc("/me", a.HandleMe).Methods("GET")
	protected.HandleFunc("/admin-data", a.RequireRole(RoleAdmin, a.HandleAdminData)).Methods("GET")

	return cors.New(cors.Options{
		// echo whatever origin calls; "*" cannot be combined with credentials
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("write json")
	}
}

func initLogger(level string) {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warnf("invalid LOG_LEVEL %q, defaulting to info", level)
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

func main() {
	_ = godotenv.Load()

	c, err := cfg.New()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	initLogger(c.LogLevel)

	gen := NewOpenAIGenerator(c.OpenAIAPIKey, c.OpenAIBaseURL, c.Model, c.Temperature, c.MaxTokens)
	app := NewApp(c, gen)

	srv := &http.Server{
		Handler:     app.Router(),
		Addr:        ":" + c.Port,
		ReadTimeout: 5 * time.Second,
		// Generation calls can legitimately take most of their timeout.
		WriteTimeout: c.GenerationTimeout + 15*time.Second,
	}

	go func() {
		logrus.Infof("starting server on :%s", c.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("shutdown failed: %v", err)
	}
	logrus.Info("server exited properly")
}
