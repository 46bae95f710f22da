// Package storage declares the persistence contracts the services are
// written against. The postgres subpackage provides the production
// implementation; tests substitute in-memory fakes.
package storage

import (
	"context"
	"errors"

	"github.com/mlazarev/taskman/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflicts with an existing one")
)

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)

	// Update persists name, email, password and updated_at.
	Update(ctx context.Context, user *models.User) error
}

type TaskStore interface {
	// Insert persists the task together with its assignee relation
	// in a single transaction.
	Insert(ctx context.Context, task *models.Task) error

	// GetByID returns the task hydrated with its author, assignees
	// and comments.
	GetByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Task, error)
	ListByAssignee(ctx context.Context, assigneeID string) ([]models.Task, error)

	// Update persists title, description, status, priority and updated_at.
	Update(ctx context.Context, task *models.Task) error

	AddAssignee(ctx context.Context, taskID, userID string) error
	RemoveAssignee(ctx context.Context, taskID, userID string) error

	Delete(ctx context.Context, id string) error
}

type CommentStore interface {
	Insert(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByTask(ctx context.Context, taskID string) ([]models.Comment, error)

	// Update persists text and timestamp.
	Update(ctx context.Context, comment *models.Comment) error

	Delete(ctx context.Context, id string) error
	DeleteAllByTask(ctx context.Context, taskID string) error
}
