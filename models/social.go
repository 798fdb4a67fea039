package models

import (
	"strings"
	"time"
)

// Post, bir kullanıcının paylaşımı. RealmID doluysa paylaşım o realm'e aittir.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	RealmID   *string   `json:"realm_id"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment, bir post'a yorum. ParentID doluysa başka bir yoruma yanıttır.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	ParentID  *string   `json:"parent_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Realm, kullanıcıların katılabildiği topluluk.
type Realm struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreatePostRequest, POST /api/posts body'si.
type CreatePostRequest struct {
	Content  string `json:"content" validate:"required,max=5000"`
	ImageURL string `json:"image_url" validate:"omitempty,max=2048,http_url"`
	RealmID  string `json:"realm_id" validate:"max=64"`
}

func (r *CreatePostRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	r.RealmID = strings.TrimSpace(r.RealmID)
	return validateStruct(r)
}

// CreateCommentRequest, yorum veya yanıt body'si.
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,max=2000"`
	ParentID string `json:"parent_id" validate:"max=64"`
}

func (r *CreateCommentRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	r.ParentID = strings.TrimSpace(r.ParentID)
	return validateStruct(r)
}

// CreateRealmRequest, POST /api/realms body'si.
type CreateRealmRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=64"`
	Description string `json:"description" validate:"max=500"`
}

func (r *CreateRealmRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	return validateStruct(r)
}
