package models

import "time"

// Comment is a reader-submitted comment document. Comments are created
// with Approved unset and become visible on the owning post only after an
// external moderation action flips the flag. This application never sets
// or clears Approved itself, and never edits or deletes comments.
type Comment struct {
	ID        string    `json:"_id"`
	CreatedAt time.Time `json:"_createdAt"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Comment   string    `json:"comment"`
	Approved  bool      `json:"approved"`
	Post      Reference `json:"post"`
}

// Reference is a document reference field ({_type: "reference", _ref: id}).
type Reference struct {
	Type string `json:"_type"`
	Ref  string `json:"_ref"`
}

// NewPostReference builds a reference to the post with the given id.
func NewPostReference(postID string) Reference {
	return Reference{Type: "reference", Ref: postID}
}
