package models

import "time"

// Document request lifecycle.
const (
	DocStatusPending    = "pending"
	DocStatusProcessing = "processing"
	DocStatusReady      = "ready"
	DocStatusReleased   = "released"
)

type DocumentRequest struct {
	ID            int64     `json:"id"`
	Department    string    `json:"department"`
	RequesterName string    `json:"requester_name"`
	IDNumber      string    `json:"id_number"`
	DocumentType  string    `json:"document_type"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateDocumentRequest struct {
	Department    string `json:"department" validate:"required,oneof=registrar admissions"`
	RequesterName string `json:"requester_name" validate:"required,max=255"`
	IDNumber      string `json:"id_number" validate:"required,max=50"`
	DocumentType  string `json:"document_type" validate:"required,max=100"`
	Notes         string `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateDocumentRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=pending processing ready released"`
	Notes  string `json:"notes" validate:"omitempty,max=1000"`
}
