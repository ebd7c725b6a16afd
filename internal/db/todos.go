package db

import (
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/evotodo/backend/internal/model"
)

// Every query below filters on user_id as well as id, so a row belonging to
// another user is indistinguishable from a row that does not exist.

func (s *pgStore) CreateTodo(userID int, title string, description *string) (model.Todo, error) {
	var t model.Todo
	q := `
	INSERT INTO todos (title, description, completed, user_id, created_at, updated_at)
	VALUES ($1, $2, false, $3, now(), now())
	RETURNING id, title, description, completed, user_id, created_at, updated_at;`
	if err := s.db.Get(&t, q, title, description, userID); err != nil {
		log.Error().Msg("failed to create todo")
		return model.Todo{}, err
	}
	return t, nil
}

func (s *pgStore) GetTodoByID(id, userID int) (model.Todo, error) {
	var t model.Todo
	err := s.db.Get(&t, `
		SELECT id, title, description, completed, user_id, created_at, updated_at
		FROM todos
		WHERE id = $1 AND user_id = $2
		`, id, userID)
	return t, err
}

func (s *pgStore) ListTodos(userID int) ([]model.Todo, error) {
	todos := []model.Todo{}
	err := s.db.Select(&todos, `
		SELECT id, title, description, completed, user_id, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY id
		`, userID)
	if err != nil {
		log.Error().Msg("failed to list todos")
		return nil, err
	}
	return todos, nil
}

func (s *pgStore) UpdateTodo(id, userID int, title, description *string) (model.Todo, error) {
	var t model.Todo
	err := s.db.Get(&t, `
		UPDATE todos
		SET title = COALESCE($3, title),
		description = COALESCE($4, description),
		updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, title, description, completed, user_id, created_at, updated_at
		`, id, userID, title, description)
	return t, err
}

func (s *pgStore) DeleteTodo(id, userID int) error {
	res, err := s.db.Exec(`DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		log.Error().Msg("failed to delete todo")
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *pgStore) ToggleTodo(id, userID int) (model.Todo, error) {
	var t model.Todo
	err := s.db.Get(&t, `
		UPDATE todos
		SET completed = NOT completed,
		updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, title, description, completed, user_id, created_at, updated_at
		`, id, userID)
	return t, err
}
