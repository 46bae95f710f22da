package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mlazarev/taskman/internal/models"
)

func newTestTaskService(store *memStore) (TaskService, CommentService) {
	logger := zerolog.Nop()
	comments := NewCommentService(logger, store.commentStore(), store.taskStore())
	tasks := NewTaskService(logger, store.taskStore(), store, comments)
	return tasks, comments
}

func seedUser(store *memStore, id, name, email string) *models.User {
	user := &models.User{
		ID:        id,
		Name:      name,
		Email:     email,
		Password:  "digest",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	store.users = append(store.users, user)
	return user
}

func mustCreateTask(t *testing.T, tasks TaskService, params CreateTaskParams) *models.Task {
	t.Helper()
	task, err := tasks.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error creating task: %v", err)
	}
	return task
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestCreateTask_Defaults(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{Title: "T1", Author: author})

	if task.Description != "" {
		t.Fatalf("expected empty description, got %q", task.Description)
	}
	if task.Status != models.StatusPending {
		t.Fatalf("expected pending status, got %v", task.Status)
	}
	if task.Priority != models.PriorityLow {
		t.Fatalf("expected low priority, got %v", task.Priority)
	}
	if task.Author.ID != author.ID {
		t.Fatalf("expected author %q, got %q", author.ID, task.Author.ID)
	}
	if task.ID == "" {
		t.Fatalf("expected a generated task id")
	}
}

func TestCreateTask_BlankTitle(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")

	for _, title := range []string{"", "   "} {
		_, err := tasks.Create(context.Background(), CreateTaskParams{Title: title, Author: author})
		if !errors.Is(err, ErrInvalidTitle) {
			t.Fatalf("title %q: expected ErrInvalidTitle, got %v", title, err)
		}
	}
}

func TestCreateTask_ExplicitValues(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{
		Title:         "T1",
		Description:   strPtr("details"),
		StatusValue:   intPtr(2),
		PriorityValue: intPtr(3),
		Author:        author,
	})

	if task.Description != "details" {
		t.Fatalf("expected description %q, got %q", "details", task.Description)
	}
	if task.Status != models.StatusInProgress {
		t.Fatalf("expected in-progress status, got %v", task.Status)
	}
	if task.Priority != models.PriorityHigh {
		t.Fatalf("expected high priority, got %v", task.Priority)
	}
}

func TestCreateTask_OutOfRangeEnumValues(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")

	_, err := tasks.Create(context.Background(), CreateTaskParams{
		Title:       "T1",
		StatusValue: intPtr(4),
		Author:      author,
	})
	if !errors.Is(err, models.ErrInvalidStatusValue) {
		t.Fatalf("expected invalid status value error, got %v", err)
	}

	_, err = tasks.Create(context.Background(), CreateTaskParams{
		Title:         "T1",
		PriorityValue: intPtr(0),
		Author:        author,
	})
	if !errors.Is(err, models.ErrInvalidPriorityValue) {
		t.Fatalf("expected invalid priority value error, got %v", err)
	}
}

func TestCreateTask_ResolvesAndDeduplicatesAssignees(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	bob := seedUser(store, "u2", "Bob", "bob@example.com")
	carol := seedUser(store, "u3", "Carol", "carol@example.com")

	// Bob is referenced twice, once by id and once by email.
	task := mustCreateTask(t, tasks, CreateTaskParams{
		Title:  "T1",
		Author: author,
		Assignees: []AssigneeRef{
			{ID: bob.ID},
			{Email: bob.Email},
			{Email: carol.Email},
		},
	})

	if len(task.Assignees) != 2 {
		t.Fatalf("expected 2 assignees, got %d", len(task.Assignees))
	}
	if task.Assignees[0].ID != bob.ID || task.Assignees[1].ID != carol.ID {
		t.Fatalf("unexpected assignees: %+v", task.Assignees)
	}
}

func TestCreateTask_UnknownAssignee(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")

	_, err := tasks.Create(context.Background(), CreateTaskParams{
		Title:     "T1",
		Author:    author,
		Assignees: []AssigneeRef{{Email: "ghost@example.com"}},
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateTask_EmptyAssigneeRef(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")

	_, err := tasks.Create(context.Background(), CreateTaskParams{
		Title:     "T1",
		Author:    author,
		Assignees: []AssigneeRef{{}},
	})
	if !errors.Is(err, ErrInvalidAssignee) {
		t.Fatalf("expected ErrInvalidAssignee, got %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)

	_, err := tasks.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestUpdateTitle_AuthorOnly(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	assignee := seedUser(store, "u2", "Bob", "bob@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{
		Title:     "T1",
		Author:    author,
		Assignees: []AssigneeRef{{ID: assignee.ID}},
	})

	_, err := tasks.UpdateTitle(context.Background(), task.ID, "X", assignee)
	if !errors.Is(err, ErrNotTaskAuthor) {
		t.Fatalf("expected ErrNotTaskAuthor for assignee, got %v", err)
	}

	updated, err := tasks.UpdateTitle(context.Background(), task.ID, "X", author)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "X" {
		t.Fatalf("expected title %q, got %q", "X", updated.Title)
	}

	stored, err := tasks.GetByID(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Title != "X" {
		t.Fatalf("title change was not persisted: %q", stored.Title)
	}
}

func TestUpdateTitle_Blank(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	task := mustCreateTask(t, tasks, CreateTaskParams{Title: "T1", Author: author})

	_, err := tasks.UpdateTitle(context.Background(), task.ID, "  ", author)
	if !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
}

func TestUpdateDescription_RequiresValue(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	task := mustCreateTask(t, tasks, CreateTaskParams{
		Title:       "T1",
		Description: strPtr("old"),
		Author:      author,
	})

	_, err := tasks.UpdateDescription(context.Background(), task.ID, nil, author)
	if !errors.Is(err, ErrInvalidDescription) {
		t.Fatalf("expected ErrInvalidDescription, got %v", err)
	}

	// An empty string is a valid description: it clears the field.
	updated, err := tasks.UpdateDescription(context.Background(), task.ID, strPtr(""), author)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Description != "" {
		t.Fatalf("expected cleared description, got %q", updated.Description)
	}
}

func TestUpdateStatus_AuthorOrAssignee(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	assignee := seedUser(store, "u2", "Bob", "bob@example.com")
	stranger := seedUser(store, "u3", "Carol", "carol@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{
		Title:     "T1",
		Author:    author,
		Assignees: []AssigneeRef{{ID: assignee.ID}},
	})

	updated, err := tasks.UpdateStatus(context.Background(), task.ID, 2, assignee)
	if err != nil {
		t.Fatalf("assignee should be allowed to update status: %v", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Fatalf("expected in-progress status, got %v", updated.Status)
	}

	if _, err = tasks.UpdateStatus(context.Background(), task.ID, 3, author); err != nil {
		t.Fatalf("author should be allowed to update status: %v", err)
	}

	_, err = tasks.UpdateStatus(context.Background(), task.ID, 1, stranger)
	if !errors.Is(err, ErrNotAuthorOrAssignee) {
		t.Fatalf("expected ErrNotAuthorOrAssignee, got %v", err)
	}

	_, err = tasks.UpdateStatus(context.Background(), task.ID, 9, author)
	if !errors.Is(err, models.ErrInvalidStatusValue) {
		t.Fatalf("expected invalid status value error, got %v", err)
	}
}

func TestUpdateStatus_CompletedIsNotTerminal(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	task := mustCreateTask(t, tasks, CreateTaskParams{Title: "T1", Author: author})

	if _, err := tasks.UpdateStatus(context.Background(), task.ID, 3, author); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	updated, err := tasks.UpdateStatus(context.Background(), task.ID, 2, author)
	if err != nil {
		t.Fatalf("completed must not lock the task: %v", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Fatalf("expected in-progress status, got %v", updated.Status)
	}
}

func TestUpdatePriority_AuthorOnly(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	assignee := seedUser(store, "u2", "Bob", "bob@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{
		Title:     "T1",
		Author:    author,
		Assignees: []AssigneeRef{{ID: assignee.ID}},
	})

	_, err := tasks.UpdatePriority(context.Background(), task.ID, 3, assignee)
	if !errors.Is(err, ErrNotTaskAuthor) {
		t.Fatalf("expected ErrNotTaskAuthor for assignee, got %v", err)
	}

	updated, err := tasks.UpdatePriority(context.Background(), task.ID, 3, author)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Priority != models.PriorityHigh {
		t.Fatalf("expected high priority, got %v", updated.Priority)
	}

	_, err = tasks.UpdatePriority(context.Background(), task.ID, 42, author)
	if !errors.Is(err, models.ErrInvalidPriorityValue) {
		t.Fatalf("expected invalid priority value error, got %v", err)
	}
}

func TestAppendAssignee_Idempotent(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	bob := seedUser(store, "u2", "Bob", "bob@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{Title: "T1", Author: author})

	first, err := tasks.AppendAssignee(context.Background(), task.ID, AssigneeRef{ID: bob.ID}, author)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Assignees) != 1 {
		t.Fatalf("expected 1 assignee, got %d", len(first.Assignees))
	}

	// Appending again by email must succeed without duplicating.
	second, err := tasks.AppendAssignee(context.Background(), task.ID, AssigneeRef{Email: bob.Email}, author)
	if err != nil {
		t.Fatalf("append must be idempotent: %v", err)
	}
	if len(second.Assignees) != 1 {
		t.Fatalf("expected 1 assignee after duplicate append, got %d", len(second.Assignees))
	}
}

func TestAppendAssignee_AuthorOnly(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	bob := seedUser(store, "u2", "Bob", "bob@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{Title: "T1", Author: author})

	_, err := tasks.AppendAssignee(context.Background(), task.ID, AssigneeRef{ID: bob.ID}, bob)
	if !errors.Is(err, ErrNotTaskAuthor) {
		t.Fatalf("expected ErrNotTaskAuthor, got %v", err)
	}
}

func TestRemoveAssignee(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	bob := seedUser(store, "u2", "Bob", "bob@example.com")
	carol := seedUser(store, "u3", "Carol", "carol@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{
		Title:     "T1",
		Author:    author,
		Assignees: []AssigneeRef{{ID: bob.ID}, {ID: carol.ID}},
	})

	// Removing a non-member fails.
	stranger := seedUser(store, "u4", "Dave", "dave@example.com")
	_, err := tasks.RemoveAssignee(context.Background(), task.ID, AssigneeRef{ID: stranger.ID}, author)
	if !errors.Is(err, ErrAssigneeNotInTask) {
		t.Fatalf("expected ErrAssigneeNotInTask, got %v", err)
	}

	updated, err := tasks.RemoveAssignee(context.Background(), task.ID, AssigneeRef{ID: carol.ID}, author)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Assignees) != 1 || updated.Assignees[0].ID != bob.ID {
		t.Fatalf("expected exactly bob to remain, got %+v", updated.Assignees)
	}
}

func TestDeleteTask_CascadesComments(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	bob := seedUser(store, "u2", "Bob", "bob@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{Title: "T1", Author: author})
	if _, err := tasks.AppendComment(context.Background(), task.ID, "first", author); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tasks.AppendComment(context.Background(), task.ID, "second", bob); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := tasks.DeleteByID(context.Background(), task.ID, bob)
	if !errors.Is(err, ErrNotTaskAuthor) {
		t.Fatalf("expected ErrNotTaskAuthor for non-author delete, got %v", err)
	}

	if err = tasks.DeleteByID(context.Background(), task.ID, author); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err = tasks.GetByID(context.Background(), task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound after delete, got %v", err)
	}
	if len(store.comments) != 0 {
		t.Fatalf("expected all task comments to be cascade-deleted, %d left", len(store.comments))
	}
}

func TestAppendComment_AnyCaller(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	stranger := seedUser(store, "u2", "Bob", "bob@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{Title: "T1", Author: author})

	updated, err := tasks.AppendComment(context.Background(), task.ID, "hello", stranger)
	if err != nil {
		t.Fatalf("any authenticated user may comment: %v", err)
	}
	if len(updated.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(updated.Comments))
	}
	if updated.Comments[0].Commentator.ID != stranger.ID {
		t.Fatalf("expected commentator %q, got %q", stranger.ID, updated.Comments[0].Commentator.ID)
	}

	_, err = tasks.AppendComment(context.Background(), task.ID, "  ", stranger)
	if !errors.Is(err, ErrEmptyCommentText) {
		t.Fatalf("expected ErrEmptyCommentText, got %v", err)
	}
}

func TestRemoveComment_Authorization(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	bob := seedUser(store, "u2", "Bob", "bob@example.com")
	carol := seedUser(store, "u3", "Carol", "carol@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{Title: "T1", Author: author})
	withComment, err := tasks.AppendComment(context.Background(), task.ID, "from bob", bob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	commentID := withComment.Comments[0].ID

	// Neither the commentator nor the author: rejected.
	_, err = tasks.RemoveComment(context.Background(), task.ID, commentID, carol)
	if !errors.Is(err, ErrNotCommentatorOrTaskAuthor) {
		t.Fatalf("expected ErrNotCommentatorOrTaskAuthor, got %v", err)
	}

	// The task author may remove another user's comment.
	updated, err := tasks.RemoveComment(context.Background(), task.ID, commentID, author)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Comments) != 0 {
		t.Fatalf("expected no comments left, got %d", len(updated.Comments))
	}
}

func TestRemoveComment_ByCommentator(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")
	bob := seedUser(store, "u2", "Bob", "bob@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{Title: "T1", Author: author})
	withComment, err := tasks.AppendComment(context.Background(), task.ID, "from bob", bob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err = tasks.RemoveComment(context.Background(), task.ID, withComment.Comments[0].ID, bob); err != nil {
		t.Fatalf("commentator must be able to remove own comment: %v", err)
	}
}

func TestRemoveComment_WrongTask(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	author := seedUser(store, "u1", "Alice", "alice@example.com")

	first := mustCreateTask(t, tasks, CreateTaskParams{Title: "T1", Author: author})
	second := mustCreateTask(t, tasks, CreateTaskParams{Title: "T2", Author: author})

	withComment, err := tasks.AppendComment(context.Background(), first.ID, "on first", author)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = tasks.RemoveComment(context.Background(), second.ID, withComment.Comments[0].ID, author)
	if !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound for foreign comment, got %v", err)
	}
}

func TestListByAuthorAndAssignee(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	alice := seedUser(store, "u1", "Alice", "alice@example.com")
	bob := seedUser(store, "u2", "Bob", "bob@example.com")

	mustCreateTask(t, tasks, CreateTaskParams{Title: "T1", Author: alice, Assignees: []AssigneeRef{{ID: bob.ID}}})
	mustCreateTask(t, tasks, CreateTaskParams{Title: "T2", Author: alice})
	mustCreateTask(t, tasks, CreateTaskParams{Title: "T3", Author: bob})

	byAuthor, err := tasks.ListByAuthor(context.Background(), alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byAuthor) != 2 {
		t.Fatalf("expected 2 tasks by alice, got %d", len(byAuthor))
	}

	byAssignee, err := tasks.ListByAssignee(context.Background(), bob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byAssignee) != 1 || byAssignee[0].Title != "T1" {
		t.Fatalf("expected exactly T1 assigned to bob, got %+v", byAssignee)
	}
}

// The worked scenario: author U1, assignees U2 and U3, outsider U4.
func TestTaskAuthorization_Scenario(t *testing.T) {
	store := newMemStore()
	tasks, _ := newTestTaskService(store)
	u1 := seedUser(store, "u1", "U1", "u1@example.com")
	u2 := seedUser(store, "u2", "U2", "u2@example.com")
	u3 := seedUser(store, "u3", "U3", "u3@example.com")
	u4 := seedUser(store, "u4", "U4", "u4@example.com")

	task := mustCreateTask(t, tasks, CreateTaskParams{
		Title:     "T1",
		Author:    u1,
		Assignees: []AssigneeRef{{ID: u2.ID}, {ID: u3.ID}},
	})

	if _, err := tasks.UpdateStatus(context.Background(), task.ID, 2, u2); err != nil {
		t.Fatalf("assignee status update must succeed: %v", err)
	}

	if _, err := tasks.UpdateTitle(context.Background(), task.ID, "X", u2); !errors.Is(err, ErrNotTaskAuthor) {
		t.Fatalf("assignee title update must fail, got %v", err)
	}

	updated, err := tasks.RemoveAssignee(context.Background(), task.ID, AssigneeRef{ID: u3.ID}, u1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updated.Assignees) != 1 || updated.Assignees[0].ID != u2.ID {
		t.Fatalf("expected assignees [u2], got %+v", updated.Assignees)
	}

	if _, err = tasks.RemoveAssignee(context.Background(), task.ID, AssigneeRef{ID: u2.ID}, u4); !errors.Is(err, ErrNotTaskAuthor) {
		t.Fatalf("outsider remove must fail, got %v", err)
	}
}
