// Package models defines the document types served by the content store.
// Field names and JSON tags mirror the store's document schema (_id,
// _createdAt, reference fields), so documents decode without translation.
package models

import "time"

// Slug wraps the store's slug object. Current is the value used in URLs
// and is the post's stable external identity.
type Slug struct {
	Current string `json:"current"`
}

// Image is a reference to a stored image asset. Asset.Ref is resolved to a
// fetchable CDN URL by the sanity client, never dereferenced locally.
type Image struct {
	Asset AssetRef `json:"asset"`
}

// AssetRef holds the opaque asset reference, e.g.
// "image-f9b...-1200x800-jpg".
type AssetRef struct {
	Ref string `json:"_ref"`
}

// Author is owned by the content store and referenced by posts. It is
// joined into post projections at query time, never duplicated.
type Author struct {
	Name  string `json:"name"`
	Image Image  `json:"image"`
}

// PostSummary is the listing-page projection of a post: everything the
// index needs, without body or comments.
type PostSummary struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Author      Author `json:"author"`
	Description string `json:"description"`
	MainImage   Image  `json:"mainImage"`
	Slug        Slug   `json:"slug"`
}

// Post is the full detail-page projection, including the portable-text
// body and the derived list of approved comments.
type Post struct {
	ID          string    `json:"_id"`
	CreatedAt   time.Time `json:"_createdAt"`
	Title       string    `json:"title"`
	Author      Author    `json:"author"`
	Description string    `json:"description"`
	MainImage   Image     `json:"mainImage"`
	Slug        Slug      `json:"slug"`
	Body        []Block   `json:"body"`
	Comments    []Comment `json:"comments"`
}

// Block is one portable-text content block. Only the structure needed to
// render headings, paragraphs, list items, and links is modeled.
type Block struct {
	Key      string    `json:"_key"`
	Type     string    `json:"_type"`
	Style    string    `json:"style"`
	ListItem string    `json:"listItem,omitempty"`
	Children []Span    `json:"children"`
	MarkDefs []MarkDef `json:"markDefs"`
}

// Span is a run of text within a block, optionally carrying marks
// (decorators like "strong", or keys into the block's MarkDefs).
type Span struct {
	Key   string   `json:"_key"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

// MarkDef is an annotation definition referenced by span marks.
// Link annotations carry an Href.
type MarkDef struct {
	Key  string `json:"_key"`
	Type string `json:"_type"`
	Href string `json:"href,omitempty"`
}
