package api

import (
	"github.com/gorilla/mux"
	"github.com/seobright/careers/internal/config"
	"github.com/seobright/careers/internal/schema"
	"github.com/seobright/careers/internal/store"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, st *store.Store, schemas *schema.Registry) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := NewSystemHandler(st, cfg)
	careersHandler := NewCareersHandler(st, schemas)

	// Diagnostics
	r.HandleFunc("/", systemHandler.RootHandler).Methods("GET")
	r.HandleFunc("/api/hello", systemHandler.HelloHandler).Methods("GET")
	r.HandleFunc("/test", systemHandler.TestHandler).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")

	// Careers endpoints
	careers := r.PathPrefix("/careers").Subrouter()
	careers.HandleFunc("/jobs", careersHandler.ListJobs).Methods("GET")
	careers.HandleFunc("/jobs", careersHandler.CreateJob).Methods("POST")
	careers.HandleFunc("/jobs/{id}", careersHandler.GetJob).Methods("GET")
	careers.HandleFunc("/apply", careersHandler.Apply).Methods("POST")
	careers.HandleFunc("/seed", careersHandler.SeedJobs).Methods("POST")

	return r
}
