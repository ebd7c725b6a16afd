package db

import (
	"database/sql"
	"sync"
	"time"

	"github.com/evotodo/backend/internal/model"
)

// memStore is an in-memory Store used by package tests so handler suites can
// run without a postgres instance. The server itself always runs on pgStore.
type memStore struct {
	mu         sync.Mutex
	users      map[int]*model.User
	todos      map[int]model.Todo
	nextUserID int
	nextTodoID int
	lastNow    time.Time
}

var _ Store = (*memStore)(nil)

func NewTestStore() Store {
	return &memStore{
		users:      make(map[int]*model.User),
		todos:      make(map[int]model.Todo),
		nextUserID: 1,
		nextTodoID: 1,
	}
}

// now returns a strictly increasing timestamp, mirroring the strictly
// monotonic updated_at the postgres queries produce via now().
func (s *memStore) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.lastNow) {
		t = s.lastNow.Add(time.Microsecond)
	}
	s.lastNow = t
	return t
}

func (s *memStore) CreateUser(email, hashedPassword string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrDuplicateEmail
		}
	}

	u := &model.User{
		ID:             s.nextUserID,
		Email:          email,
		HashedPassword: hashedPassword,
		CreatedAt:      s.now(),
	}
	s.users[u.ID] = u
	s.nextUserID++
	return u, nil
}

func (s *memStore) GetUserByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memStore) GetUserByID(id int) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (s *memStore) CreateTodo(userID int, title string, description *string) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := model.Todo{
		ID:          s.nextTodoID,
		Title:       title,
		Description: description,
		Completed:   false,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.todos[t.ID] = t
	s.nextTodoID++
	return t, nil
}

func (s *memStore) GetTodoByID(id, userID int) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok || t.UserID != userID {
		return model.Todo{}, sql.ErrNoRows
	}
	return t, nil
}

func (s *memStore) ListTodos(userID int) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []model.Todo{}
	for id := 1; id < s.nextTodoID; id++ {
		if t, ok := s.todos[id]; ok && t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) UpdateTodo(id, userID int, title, description *string) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok || t.UserID != userID {
		return model.Todo{}, sql.ErrNoRows
	}
	if title != nil {
		t.Title = *title
	}
	if description != nil {
		t.Description = description
	}
	t.UpdatedAt = s.now()
	s.todos[id] = t
	return t, nil
}

func (s *memStore) DeleteTodo(id, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok || t.UserID != userID {
		return sql.ErrNoRows
	}
	delete(s.todos, id)
	return nil
}

func (s *memStore) ToggleTodo(id, userID int) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok || t.UserID != userID {
		return model.Todo{}, sql.ErrNoRows
	}
	t.Completed = !t.Completed
	t.UpdatedAt = s.now()
	s.todos[id] = t
	return t, nil
}
