package domain

import "time"

type Notification struct {
	ID         string            `json:"id"`
	UserID     string            `json:"userId"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"isRead"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}
