package services

import (
	"context"
	"errors"
	"time"

	"github.com/mlazarev/taskman/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrCommentNotFound = errors.New("comment not found")

	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrEmailTaken         = errors.New("email is taken by another user")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidName     = errors.New("invalid user name")
	ErrInvalidPassword = errors.New("invalid user password")

	ErrInvalidTitle       = errors.New("invalid task title")
	ErrInvalidDescription = errors.New("invalid task description")
	ErrInvalidAssignee    = errors.New("assignee must have at least an id or email")
	ErrAssigneeNotInTask  = errors.New("user is not an assignee of the task")

	ErrEmptyCommentText = errors.New("comment text is empty")

	ErrNotTaskAuthor              = errors.New("only the author can update the task")
	ErrNotAuthorOrAssignee        = errors.New("only the author or an assignee can update the task status")
	ErrNotCommentator             = errors.New("only the commentator can change the comment")
	ErrNotCommentatorOrTaskAuthor = errors.New("only the commentator or task author can delete the comment")
)

// AuthService is the opaque gateway for credentials and bearer tokens.
// Everything else treats hashing and token signing as black boxes.
type AuthService interface {
	// IssueToken signs a bearer token carrying the
	// given email and returns it with its expiry.
	IssueToken(email string) (string, time.Time, error)

	// ParseToken verifies the token and returns the email it carries.
	ParseToken(token string) (string, error)

	HashPassword(password string) (string, error)
	VerifyPassword(password, digest string) (bool, error)
}

type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByCredentials returns the user matching both email and
	// password. Unknown email and password mismatch are deliberately
	// indistinguishable: both yield ErrInvalidCredentials.
	FindByCredentials(ctx context.Context, email, password string) (*models.User, error)

	// Register validates the profile fields, hashes the password and
	// stores the user. A duplicate email yields ErrUserAlreadyExists.
	Register(ctx context.Context, params RegisterParams) (*models.User, error)

	UpdateName(ctx context.Context, email, name string) (*models.User, error)

	// UpdateEmail rejects with ErrEmailTaken when the new
	// email belongs to a different user.
	UpdateEmail(ctx context.Context, email, newEmail string) (*models.User, error)

	UpdatePassword(ctx context.Context, email, password string) (*models.User, error)
}

// TaskService is the sole authority for task lifecycle and field-level
// authorization. Every mutator checks the caller against the stored
// author (and, for status updates, the assignee set) by identity.
type TaskService interface {
	ListAll(ctx context.Context) ([]models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)

	Create(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// DeleteByID removes the task and cascades
	// deletion of all its comments. Author only.
	DeleteByID(ctx context.Context, id string, caller *models.User) error

	UpdateTitle(ctx context.Context, id, title string, caller *models.User) (*models.Task, error)
	UpdateDescription(ctx context.Context, id string, description *string, caller *models.User) (*models.Task, error)

	// UpdateStatus is broader than the other mutators:
	// the author or any current assignee may set it.
	UpdateStatus(ctx context.Context, id string, statusValue int, caller *models.User) (*models.Task, error)

	UpdatePriority(ctx context.Context, id string, priorityValue int, caller *models.User) (*models.Task, error)

	// AppendAssignee is idempotent: appending a user who is
	// already an assignee succeeds without duplicating them.
	AppendAssignee(ctx context.Context, id string, ref AssigneeRef, caller *models.User) (*models.Task, error)

	// RemoveAssignee fails with ErrAssigneeNotInTask when the
	// referenced user is not currently an assignee.
	RemoveAssignee(ctx context.Context, id string, ref AssigneeRef, caller *models.User) (*models.Task, error)

	// AppendComment is open to any authenticated caller.
	AppendComment(ctx context.Context, id, text string, caller *models.User) (*models.Task, error)
	RemoveComment(ctx context.Context, id, commentID string, caller *models.User) (*models.Task, error)

	ListByAuthor(ctx context.Context, author *models.User) ([]models.Task, error)
	ListByAssignee(ctx context.Context, assignee *models.User) ([]models.Task, error)
}

type CommentService interface {
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// Create validates the text and stamps the comment
	// with the current server time.
	Create(ctx context.Context, params CreateCommentParams) (*models.Comment, error)

	// UpdateText is commentator-only and refreshes the timestamp.
	UpdateText(ctx context.Context, id, text string, commentator *models.User) (*models.Comment, error)

	// DeleteByID succeeds for the commentator or the owning
	// task's author.
	DeleteByID(ctx context.Context, id string, caller *models.User) error

	// DeleteAllInTask bulk-deletes the task's comments and clears
	// the in-memory collection. Used during task deletion.
	DeleteAllInTask(ctx context.Context, task *models.Task) error
}

type RegisterParams struct {
	Email    string
	Password string
	Name     string
}

// AssigneeRef references a user by id or email. A ref carrying
// neither is invalid.
type AssigneeRef struct {
	ID    string
	Email string
}

type CreateTaskParams struct {
	Title         string
	Description   *string
	StatusValue   *int
	PriorityValue *int
	Assignees     []AssigneeRef
	Author        *models.User
}

type CreateCommentParams struct {
	TaskID      string
	Text        string
	Commentator *models.User
}
