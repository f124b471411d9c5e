package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"circle-backend/internal/content"
	"circle-backend/internal/files"
	"circle-backend/internal/models"
	"circle-backend/internal/session"
	"circle-backend/internal/state"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger
var db *sql.DB
var cfg *models.ConfigFile
var sessions *session.Store
var storage *files.Storage
var contentStore *content.Store
var aggregator *state.Aggregator
var validate *validator.Validate
var isHttps bool

// Setup wires the package and builds the router. Everything dispatches
// through the single /api.cgi action endpoint; the only other routes serve
// stored files.
func Setup(_cfg *models.ConfigFile, _sugar *zap.SugaredLogger, _db *sql.DB, _sessions *session.Store, _storage *files.Storage) *chi.Mux {
	cfg = _cfg
	sugar = _sugar
	db = _db
	sessions = _sessions
	storage = _storage

	contentStore = content.NewStore(db)
	aggregator = state.NewAggregator(db)
	validate = validator.New()
	isHttps = cfg.TlsCert != "" && cfg.TlsKey != ""

	r := chi.NewRouter()

	if cfg.PrintHttpRequests {
		r.Use(middleware.Logger)
	}

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if cfg.Cors {
		r.Use(cors.Handler(cors.Options{
			AllowOriginFunc:  func(r *http.Request, origin string) bool { return true },
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.Post("/api.cgi", Dispatch)
	r.Get("/api.cgi", Dispatch)

	r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(storage.Root()))))
	r.Get("/file/{filename}", ServeUploadedFile)

	return r
}

func Serve(router *chi.Mux) error {
	address := fmt.Sprintf("%s:%s", cfg.Address, cfg.Port)

	if isHttps {
		return http.ListenAndServeTLS(address, cfg.TlsCert, cfg.TlsKey, router)
	}
	return http.ListenAndServe(address, router)
}
