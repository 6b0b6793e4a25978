package models

import "time"

// User represents a row in the users table.
type User struct {
	ID           int64     `json:"id"           bson:"_id"`
	Username     string    `json:"username"     bson:"username"`
	PasswordHash string    `json:"-"            bson:"password"` // never serialize
	CreatedAt    time.Time `json:"createdAt"    bson:"created_at"`
}

// Credentials is the JSON body for POST /signup and POST /signin.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
