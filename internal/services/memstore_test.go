package services

import (
	"context"

	"github.com/mlazarev/taskman/internal/models"
	"github.com/mlazarev/taskman/internal/storage"
)

// memStore is an in-memory implementation of the storage interfaces,
// good enough to exercise the service rules without Postgres. Slices
// keep insertion order deterministic.
type memStore struct {
	users    []*models.User
	tasks    []*models.Task
	comments []*models.Comment
}

func newMemStore() *memStore {
	return &memStore{}
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyTask(t *models.Task) *models.Task {
	c := *t
	c.Assignees = append([]models.User(nil), t.Assignees...)
	c.Comments = nil
	return &c
}

func copyComment(c *models.Comment) *models.Comment {
	cp := *c
	return &cp
}

// UserStore

func (m *memStore) Insert(ctx context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return storage.ErrConflict
		}
	}
	m.users = append(m.users, copyUser(user))
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return copyUser(u), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memStore) List(ctx context.Context) ([]models.User, error) {
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *memStore) Update(ctx context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email && u.ID != user.ID {
			return storage.ErrConflict
		}
	}
	for i, u := range m.users {
		if u.ID == user.ID {
			m.users[i] = copyUser(user)
			return nil
		}
	}
	return storage.ErrNotFound
}

// TaskStore

type memTaskStore struct{ *memStore }

func (m *memStore) taskStore() storage.TaskStore { return memTaskStore{m} }

func (m memTaskStore) Insert(ctx context.Context, task *models.Task) error {
	m.memStore.tasks = append(m.memStore.tasks, copyTask(task))
	return nil
}

func (m memTaskStore) GetByID(ctx context.Context, id string) (*models.Task, error) {
	for _, t := range m.memStore.tasks {
		if t.ID == id {
			hydrated := copyTask(t)
			for _, c := range m.memStore.comments {
				if c.TaskID == id {
					hydrated.Comments = append(hydrated.Comments, *c)
				}
			}
			return hydrated, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m memTaskStore) List(ctx context.Context) ([]models.Task, error) {
	tasks := make([]models.Task, 0, len(m.memStore.tasks))
	for _, t := range m.memStore.tasks {
		hydrated, _ := m.GetByID(ctx, t.ID)
		tasks = append(tasks, *hydrated)
	}
	return tasks, nil
}

func (m memTaskStore) ListByAuthor(ctx context.Context, authorID string) ([]models.Task, error) {
	var tasks []models.Task
	for _, t := range m.memStore.tasks {
		if t.Author.ID == authorID {
			hydrated, _ := m.GetByID(ctx, t.ID)
			tasks = append(tasks, *hydrated)
		}
	}
	return tasks, nil
}

func (m memTaskStore) ListByAssignee(ctx context.Context, assigneeID string) ([]models.Task, error) {
	var tasks []models.Task
	for _, t := range m.memStore.tasks {
		for i := range t.Assignees {
			if t.Assignees[i].ID == assigneeID {
				hydrated, _ := m.GetByID(ctx, t.ID)
				tasks = append(tasks, *hydrated)
				break
			}
		}
	}
	return tasks, nil
}

func (m memTaskStore) Update(ctx context.Context, task *models.Task) error {
	for i, t := range m.memStore.tasks {
		if t.ID == task.ID {
			m.memStore.tasks[i] = copyTask(task)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m memTaskStore) AddAssignee(ctx context.Context, taskID, userID string) error {
	for _, t := range m.memStore.tasks {
		if t.ID != taskID {
			continue
		}
		for i := range t.Assignees {
			if t.Assignees[i].ID == userID {
				return nil
			}
		}
		user, err := m.memStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		t.Assignees = append(t.Assignees, *user)
		return nil
	}
	return storage.ErrNotFound
}

func (m memTaskStore) RemoveAssignee(ctx context.Context, taskID, userID string) error {
	for _, t := range m.memStore.tasks {
		if t.ID != taskID {
			continue
		}
		for i := range t.Assignees {
			if t.Assignees[i].ID == userID {
				t.Assignees = append(t.Assignees[:i], t.Assignees[i+1:]...)
				return nil
			}
		}
		return storage.ErrNotFound
	}
	return storage.ErrNotFound
}

func (m memTaskStore) Delete(ctx context.Context, id string) error {
	for i, t := range m.memStore.tasks {
		if t.ID == id {
			m.memStore.tasks = append(m.memStore.tasks[:i], m.memStore.tasks[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// CommentStore

type memCommentStore struct{ *memStore }

func (m *memStore) commentStore() storage.CommentStore { return memCommentStore{m} }

func (m memCommentStore) Insert(ctx context.Context, comment *models.Comment) error {
	m.memStore.comments = append(m.memStore.comments, copyComment(comment))
	return nil
}

func (m memCommentStore) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	for _, c := range m.memStore.comments {
		if c.ID == id {
			return copyComment(c), nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m memCommentStore) ListByTask(ctx context.Context, taskID string) ([]models.Comment, error) {
	var comments []models.Comment
	for _, c := range m.memStore.comments {
		if c.TaskID == taskID {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (m memCommentStore) Update(ctx context.Context, comment *models.Comment) error {
	for i, c := range m.memStore.comments {
		if c.ID == comment.ID {
			m.memStore.comments[i] = copyComment(comment)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m memCommentStore) Delete(ctx context.Context, id string) error {
	for i, c := range m.memStore.comments {
		if c.ID == id {
			m.memStore.comments = append(m.memStore.comments[:i], m.memStore.comments[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m memCommentStore) DeleteAllByTask(ctx context.Context, taskID string) error {
	kept := m.memStore.comments[:0]
	for _, c := range m.memStore.comments {
		if c.TaskID != taskID {
			kept = append(kept, c)
		}
	}
	m.memStore.comments = kept
	return nil
}
