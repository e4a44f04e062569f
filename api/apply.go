package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/seobright/careers/internal/schema"
	"github.com/seobright/careers/internal/store"
)

// in-memory cap for multipart parsing; larger parts spill to temp files
const maxFormMemory = 32 << 20

var applicationFormFields = []string{
	"job_id", "name", "email", "phone", "linkedin", "portfolio", "cover_letter",
}

var applicationFileLabels = []string{"cv", "portfolio_file"}

// Apply accepts either a JSON body validated against the Application schema
// or a form submission, which is stored as-is without schema validation.
// Both converge on one payload shape before the insert.
func (h *CareersHandler) Apply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload store.Document
	if isFormSubmission(r) {
		p, err := parseApplicationForm(r)
		if err != nil {
			writeDetail(w, err.Error(), http.StatusBadRequest)
			return
		}
		payload = p
	} else {
		var data map[string]any
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			writeDetail(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		validated, err := h.schemas.Validate(ctx, "Application", data)
		if err != nil {
			var ve *schema.ValidationError
			if errors.As(err, &ve) {
				writeDetail(w, ve.Error(), http.StatusUnprocessableEntity)
				return
			}
			writeDetail(w, err.Error(), http.StatusInternalServerError)
			return
		}
		payload = validated
	}

	// Best-effort referential check: only ids that parse are looked up.
	if jid, ok := payload["job_id"].(string); ok && jid != "" {
		if id, err := store.ParseDocID(jid); err == nil {
			job, err := h.store.FindOne(ctx, collectionJobs, id)
			if err != nil {
				writeDetail(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if job == nil {
				writeDetail(w, "Job not found for application", http.StatusNotFound)
				return
			}
		}
	}

	id, err := h.store.Insert(ctx, collectionApplications, payload)
	if err != nil {
		writeDetail(w, err.Error(), http.StatusInternalServerError)
		return
	}

	doc, err := h.store.FindOne(ctx, collectionApplications, id)
	if err != nil {
		writeDetail(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, store.Serialize(doc), http.StatusCreated)
}

// isFormSubmission selects form mode for multipart bodies, or for urlencoded
// bodies that carry a job_id field. Anything else is treated as JSON.
func isFormSubmission(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		return true
	}
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err == nil && r.PostForm.Has("job_id") {
			return true
		}
	}

	return false
}

// parseApplicationForm builds the application payload from form fields.
// Absent fields stay null; file parts are read once for their byte size and
// discarded, only the metadata is kept.
func parseApplicationForm(r *http.Request) (store.Document, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}

	payload := store.Document{}
	for _, field := range applicationFormFields {
		payload[field] = formValue(r, field)
	}
	payload["consent"] = formBool(r.PostFormValue("consent"))

	files := map[string]any{}
	for _, label := range applicationFileLabels {
		meta, err := readFileMeta(r, label)
		if err != nil {
			return nil, err
		}
		if meta != nil {
			files[label] = meta
		}
	}
	if len(files) > 0 {
		payload["files"] = files
	}

	return payload, nil
}

func formValue(r *http.Request, key string) any {
	if vs, ok := r.PostForm[key]; ok && len(vs) > 0 {
		return vs[0]
	}

	return nil
}

func formBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes":
		return true
	default:
		return false
	}
}

func readFileMeta(r *http.Request, label string) (map[string]any, error) {
	f, fh, err := r.FormFile(label)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	size, err := io.Copy(io.Discard, f)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"filename":     fh.Filename,
		"content_type": fh.Header.Get("Content-Type"),
		"size":         size,
	}, nil
}
