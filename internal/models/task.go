package models

import "time"

// DefaultTaskStatus is applied when a task is created without a status.
const DefaultTaskStatus = "pending"

// Task is a single todo item. UserID is fixed at creation.
type Task struct {
	ID        int64     `json:"id"        bson:"_id"`
	Heading   string    `json:"heading"   bson:"heading"`
	Body      string    `json:"body"      bson:"body"`
	Status    string    `json:"status"    bson:"status"`
	UserID    int64     `json:"userId"    bson:"user_id"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// CreateTaskRequest is the JSON body for POST /todo.
type CreateTaskRequest struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
	Status  string `json:"status"`
}

// UpdateStatusRequest is the JSON body for PUT /todo/{id}.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
