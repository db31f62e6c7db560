package models

import "time"

type AuditLog struct {
	ID         int64     `json:"id"`
	AuditID    string    `json:"audit_id"`
	AdminID    int64     `json:"admin_id"`
	AdminName  string    `json:"admin_name"`
	Department string    `json:"department"`
	Action     string    `json:"action"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Detail     string    `json:"detail"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}
