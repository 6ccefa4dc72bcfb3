// Package models defines the records exchanged between the timer, the task
// stores and the HTTP API
package models

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyTaskName = errors.New("task name cannot be empty")
	ErrNoTimeWorked  = errors.New("time worked must be greater than zero")
	ErrEmptyUpdate   = errors.New("nothing to update")
)

// CompletedSession is a finished stretch of work on a named task.
type CompletedSession struct {
	CreatedAt     time.Time `json:"created_at"`
	ID            string    `json:"task_id"`
	TaskName      string    `json:"task_name"`
	OwnerID       string    `json:"owner_id,omitempty"`
	SecondsWorked int       `json:"time_worked"`
}

// Validate checks the fields every stored session must satisfy.
func (s *CompletedSession) Validate() error {
	if strings.TrimSpace(s.TaskName) == "" {
		return ErrEmptyTaskName
	}

	if s.SecondsWorked <= 0 {
		return ErrNoTimeWorked
	}

	return nil
}

// Duration returns the time worked as a time.Duration.
func (s *CompletedSession) Duration() time.Duration {
	return time.Duration(s.SecondsWorked) * time.Second
}

// SessionUpdate holds the editable fields of a stored session. Nil fields are
// left untouched.
type SessionUpdate struct {
	TaskName      *string `json:"task_name,omitempty"`
	SecondsWorked *int    `json:"time_worked,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u SessionUpdate) Empty() bool {
	return u.TaskName == nil && u.SecondsWorked == nil
}

// Apply copies the set fields onto s and validates the result.
func (u SessionUpdate) Apply(s *CompletedSession) error {
	if u.Empty() {
		return ErrEmptyUpdate
	}

	if u.TaskName != nil {
		s.TaskName = strings.TrimSpace(*u.TaskName)
	}

	if u.SecondsWorked != nil {
		s.SecondsWorked = *u.SecondsWorked
	}

	return s.Validate()
}

// NewTask is the body of a create request on the task API.
type NewTask struct {
	Task string `json:"task"`
	Time int    `json:"time"`
}

// Session converts the request into an unsaved session.
func (t NewTask) Session() CompletedSession {
	return CompletedSession{
		TaskName:      strings.TrimSpace(t.Task),
		SecondsWorked: t.Time,
	}
}

// APIError is the error payload returned by the task API.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// ErrorResponse wraps an APIError on the wire.
type ErrorResponse struct {
	Error APIError `json:"error"`
}
