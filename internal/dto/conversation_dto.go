package dto

import "time"

type CreateConversationRequest struct {
	Model string `json:"model"`
}

type MessageResponse struct {
	Id        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationResponse struct {
	Id        int64             `json:"id"`
	Title     string            `json:"title"`
	Model     string            `json:"model"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt *time.Time        `json:"updated_at,omitempty"`
	Messages  []MessageResponse `json:"messages,omitempty"`
}

type ShareResponse struct {
	ShareUrl string `json:"share_url"`
}

// SharedConversationResponse is the read-only public view: no ids, no
// owner identifiers beyond the display name.
type SharedConversationResponse struct {
	Title     string            `json:"title"`
	OwnerName string            `json:"owner_name"`
	Messages  []MessageResponse `json:"messages"`
}
