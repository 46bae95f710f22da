package models

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidStatusValue   = errors.New("invalid task status value")
	ErrInvalidPriorityValue = errors.New("invalid task priority value")
)

type TaskStatus int

const (
	StatusPending    TaskStatus = 1
	StatusInProgress TaskStatus = 2
	StatusCompleted  TaskStatus = 3
)

func (s TaskStatus) Value() int {
	return int(s)
}

func (s TaskStatus) Text() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in progress"
	case StatusCompleted:
		return "completed"
	}
	return "unknown"
}

// TaskStatusByValue maps a wire value onto a status.
// Values outside of [1;3] are rejected.
func TaskStatusByValue(value int) (TaskStatus, error) {
	switch s := TaskStatus(value); s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return s, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidStatusValue, value)
}

type TaskPriority int

const (
	PriorityLow    TaskPriority = 1
	PriorityMedium TaskPriority = 2
	PriorityHigh   TaskPriority = 3
)

func (p TaskPriority) Value() int {
	return int(p)
}

func (p TaskPriority) Text() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return "unknown"
}

func TaskPriorityByValue(value int) (TaskPriority, error) {
	switch p := TaskPriority(value); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidPriorityValue, value)
}

type Task struct {
	ID          string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	Author      User
	Assignees   []User
	Comments    []Comment
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Task) IsAuthor(u *User) bool {
	if u == nil {
		return false
	}
	return t.Author.Is(u)
}

func (t *Task) HasAssignee(u *User) bool {
	if u == nil {
		return false
	}
	for i := range t.Assignees {
		if t.Assignees[i].Is(u) {
			return true
		}
	}
	return false
}
