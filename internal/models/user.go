package models

import "time"

type User struct {
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Password    string    `json:"password,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
