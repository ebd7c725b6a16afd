// exposes a Store interface that is passed to API modules
package db

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/evotodo/backend/internal/model"
)

// returned by CreateUser when the email is already registered.
var ErrDuplicateEmail = errors.New("email already registered")

type Store interface {
	// user functions
	CreateUser(email, hashedPassword string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)

	// todo functions; every call is scoped to the owning user id
	CreateTodo(userID int, title string, description *string) (model.Todo, error)
	GetTodoByID(id, userID int) (model.Todo, error)
	ListTodos(userID int) ([]model.Todo, error)
	UpdateTodo(id, userID int, title, description *string) (model.Todo, error)
	DeleteTodo(id, userID int) error
	ToggleTodo(id, userID int) (model.Todo, error)
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
