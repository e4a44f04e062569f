package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/seobright/careers/internal/schema"
	"github.com/seobright/careers/internal/store"
)

const (
	collectionJobs         = "job"
	collectionApplications = "application"
)

type CareersHandler struct {
	store   *store.Store
	schemas *schema.Registry
}

func NewCareersHandler(st *store.Store, reg *schema.Registry) *CareersHandler {
	return &CareersHandler{store: st, schemas: reg}
}

func (h *CareersHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.Find(r.Context(), collectionJobs, nil, 0)
	if err != nil {
		writeDetail(w, err.Error(), http.StatusInternalServerError)
		return
	}

	out := make([]store.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, store.Serialize(d))
	}

	writeJSON(w, out, http.StatusOK)
}

func (h *CareersHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	validated, err := h.schemas.Validate(ctx, "Job", payload)
	if err != nil {
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			writeDetail(w, ve.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeDetail(w, err.Error(), http.StatusInternalServerError)
		return
	}

	id, err := h.store.Insert(ctx, collectionJobs, validated)
	if err != nil {
		writeDetail(w, err.Error(), http.StatusInternalServerError)
		return
	}

	doc, err := h.store.FindOne(ctx, collectionJobs, id)
	if err != nil {
		writeDetail(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, store.Serialize(doc), http.StatusCreated)
}

func (h *CareersHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := store.ParseDocID(mux.Vars(r)["id"])
	if err != nil {
		writeDetail(w, "Invalid job id", http.StatusBadRequest)
		return
	}

	doc, err := h.store.FindOne(r.Context(), collectionJobs, id)
	if err != nil {
		writeDetail(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if doc == nil {
		writeDetail(w, "Job not found", http.StatusNotFound)
		return
	}

	writeJSON(w, store.Serialize(doc), http.StatusOK)
}

// SeedJobs inserts the demo jobs into an empty job collection. The
// count-then-insert sequence is racy under concurrent calls; acceptable for
// a demo seed.
func (h *CareersHandler) SeedJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	count, err := h.store.Count(ctx, collectionJobs)
	if err != nil {
		writeDetail(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if count > 0 {
		writeJSON(w, map[string]any{"seeded": false, "message": "Jobs already exist"}, http.StatusCreated)
		return
	}

	ids := make([]string, 0, len(seedJobs))
	for _, job := range seedJobs {
		id, err := h.store.Insert(ctx, collectionJobs, job)
		if err != nil {
			writeDetail(w, err.Error(), http.StatusInternalServerError)
			return
		}
		ids = append(ids, id.String())
	}

	writeJSON(w, map[string]any{"seeded": true, "count": len(ids), "ids": ids}, http.StatusCreated)
}
