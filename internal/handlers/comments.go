package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"inkwell/internal/blog"
)

// CreateComment accepts a comment submission tied to a post id and queues
// it for moderation. The payload is {_id, name, email, comment}, as JSON
// or a form post. A 201 acknowledges receipt only — the comment stays
// invisible until externally approved. Validation failures come back with
// field-level messages; store failures invite a retry by the caller, never
// an automatic one here.
func (p *Public) CreateComment(w http.ResponseWriter, r *http.Request) {
	input, err := decodeCommentInput(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "bad_request",
		})
		return
	}

	id, err := p.service.SubmitComment(r.Context(), input)

	var verr *blog.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation",
			"fields": verr.Fields,
		})
		return
	}
	if err != nil {
		slog.Error("comment submission failed", "error", err, "post", input.PostID)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": "submission",
		})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"status": "submitted",
		"id":     id,
	})
}

// decodeCommentInput reads a submission from either a JSON body or a
// classic form post (the no-JavaScript fallback).
func decodeCommentInput(r *http.Request) (blog.CommentInput, error) {
	var input blog.CommentInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			return input, err
		}
		return input, nil
	}

	if err := r.ParseForm(); err != nil {
		return input, err
	}
	input.PostID = r.PostFormValue("_id")
	input.Name = r.PostFormValue("name")
	input.Email = r.PostFormValue("email")
	input.Comment = r.PostFormValue("comment")
	return input, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
