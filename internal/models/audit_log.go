package models

// AuditLog records denied writes against the remote store.
type AuditLog struct {
	Base
	UserID       string `gorm:"size:36;index" json:"userId"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resourceType"`
	ResourceID   string `gorm:"size:36" json:"resourceId"`
	Reason       string `json:"reason,omitempty"`
}
