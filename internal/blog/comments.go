package blog

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// CommentInput is a reader's comment submission. The json tags match the
// wire payload posted by the comment form ({_id, name, email, comment}).
type CommentInput struct {
	PostID  string `json:"_id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Comment string `json:"comment" validate:"required"`
}

// ValidationError reports a submission rejected before reaching the store.
// Fields maps json field names to human-readable messages so the form can
// flag each input individually.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "invalid comment submission: " + strings.Join(parts, "; ")
}

// SubmissionError reports that the store rejected or failed the comment
// write. Distinct from validation failure: the submitter should retry.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("comment submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// validate checks struct tags on submissions. Field names in messages use
// the json tag so they line up with the form inputs.
var validate = newCommentValidator()

func newCommentValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if tag == "-" {
			return ""
		}
		return tag
	})
	return v
}

// commentPolicy strips all markup from submitted comment text. Comments
// are plain text; anything that looks like HTML is hostile.
var commentPolicy = bluemonday.StrictPolicy()

// SubmitComment validates a submission, sanitizes its text, and persists
// it as a new unapproved comment document. It returns the created document
// id. The comment does not become visible on the post until an external
// moderation action approves it.
//
// PostID existence is not pre-checked: the store's create call is the
// authoritative rejection signal, surfaced as *SubmissionError. No retry
// is attempted; that affordance belongs to the submitter.
func (s *Service) SubmitComment(ctx context.Context, in CommentInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Comment = strings.TrimSpace(in.Comment)

	if err := validate.Struct(in); err != nil {
		return "", asValidationError(err)
	}

	doc := map[string]any{
		"_id":     uuid.NewString(),
		"_type":   "comment",
		"post":    map[string]any{"_type": "reference", "_ref": in.PostID},
		"name":    commentPolicy.Sanitize(in.Name),
		"email":   in.Email,
		"comment": commentPolicy.Sanitize(in.Comment),
		// approved is deliberately omitted: moderation is external and this
		// application never sets or clears that flag.
	}

	id, err := s.store.Create(ctx, doc)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}

	slog.Info("comment submitted", "id", id, "post", in.PostID)
	return id, nil
}

// asValidationError converts validator errors into the field-level
// taxonomy the HTTP boundary reports.
func asValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &ValidationError{Fields: map[string]string{"": err.Error()}}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "this field is required"
		case "email":
			fields[fe.Field()] = "must be a valid email address"
		default:
			fields[fe.Field()] = "invalid value"
		}
	}
	return &ValidationError{Fields: fields}
}
