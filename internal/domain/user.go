package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	FullName  string         `json:"full_name" db:"full_name"`
	Email     string         `json:"email" db:"email"`
	Company   string         `json:"company" db:"company"`
	Class     RequesterClass `json:"class" db:"class"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// Actor is the authenticated identity acting on a request, carried in JWT
// claims. Authentication itself is owned by the platform's identity service;
// this is the narrow contract the NDA subsystem consumes.
type Actor struct {
	ID       uuid.UUID      `json:"id"`
	FullName string         `json:"full_name"`
	Company  string         `json:"company"`
	Class    RequesterClass `json:"class"`
}
