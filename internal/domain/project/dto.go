package project

import (
	"time"

	"github.com/google/uuid"
)

// ProjectResponse is the list/detail representation of a project
type ProjectResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	InitialPrompt    string     `json:"initial_prompt"`
	HasCode          bool       `json:"has_code"`
	CurrentVersionID *uuid.UUID `json:"current_version_id,omitempty"`
	IsPublished      bool       `json:"is_published"`
	PublishedURL     string     `json:"published_url,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// MessageResponse is one conversation entry
type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// VersionResponse is one immutable code snapshot
type VersionResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	CreatedAt   time.Time `json:"created_at"`
}

// DetailResponse is a project with its ordered conversation log and versions
type DetailResponse struct {
	ProjectResponse
	CurrentCode *string           `json:"current_code,omitempty"`
	Messages    []MessageResponse `json:"messages"`
	Versions    []VersionResponse `json:"versions"`
}

// PublishResponse reports the new publish state after a toggle
type PublishResponse struct {
	ID           uuid.UUID `json:"id"`
	IsPublished  bool      `json:"is_published"`
	PublishedURL string    `json:"published_url,omitempty"`
}

// ProjectResponseFromEntity converts entity to response DTO
func ProjectResponseFromEntity(p *Project, publishedURL string) ProjectResponse {
	resp := ProjectResponse{
		ID:            p.ID,
		Name:          p.Name,
		InitialPrompt: p.InitialPrompt,
		HasCode:       p.CurrentCode != nil,
		IsPublished:   p.IsPublished,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.CurrentVersionID.Valid {
		id := p.CurrentVersionID.UUID
		resp.CurrentVersionID = &id
	}
	if p.IsPublished {
		resp.PublishedURL = publishedURL
	}
	return resp
}

// DetailResponseFromEntity converts a project with its log and versions
func DetailResponseFromEntity(p *Project, messages []Message, versions []Version, publishedURL string) DetailResponse {
	detail := DetailResponse{
		ProjectResponse: ProjectResponseFromEntity(p, publishedURL),
		CurrentCode:     p.CurrentCode,
		Messages:        make([]MessageResponse, 0, len(messages)),
		Versions:        make([]VersionResponse, 0, len(versions)),
	}
	for _, m := range messages {
		detail.Messages = append(detail.Messages, MessageResponse{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	for _, v := range versions {
		detail.Versions = append(detail.Versions, VersionResponse{
			ID:          v.ID,
			Description: v.Description,
			Code:        v.Code,
			CreatedAt:   v.CreatedAt,
		})
	}
	return detail
}
