package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/evotodo/backend/internal/db"
	"github.com/evotodo/backend/internal/http/api"
	"github.com/evotodo/backend/internal/http/api/todos/packets"
	"github.com/evotodo/backend/internal/model"
)

type TodoController struct {
	store db.Store
}

func newTodoController(store db.Store) *TodoController {
	return &TodoController{store: store}
}

// TodoModule mounts all authenticated /todos endpoints. Every store call
// carries the resolved user's id, so rows owned by someone else behave
// exactly like rows that do not exist.
func TodoModule(store db.Store) api.Module {
	ctl := newTodoController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/todos", ctl.listTodos)
		c.POST("/todos", ctl.createTodo)
		c.GET("/todos/:id", ctl.getTodo)
		c.PUT("/todos/:id", ctl.updateTodo)
		c.DELETE("/todos/:id", ctl.deleteTodo)
		c.PATCH("/todos/:id/toggle", ctl.toggleTodo)
	})
}

func todoResponse(t model.Todo) packets.TodoResponse {
	return packets.TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func todoID(ctx *gin.Context) (int, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		log.Error().Err(err).Str("id_raw", ctx.Param("id")).Msg("invalid id in request")
		return 0, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	return id, nil
}

// GET /api/todos
func (t *TodoController) listTodos(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	all, err := t.store.ListTodos(user.ID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list todos"}
	}

	out := make([]packets.TodoResponse, 0, len(all))
	for _, todo := range all {
		out = append(out, todoResponse(todo))
	}

	return packets.TodoListResponse{Todos: out}, nil
}

// POST /api/todos
func (t *TodoController) createTodo(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateTodoRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	todo, err := t.store.CreateTodo(user.ID, request.Title, request.Description)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create todo"}
	}

	return api.Created{Body: todoResponse(todo)}, nil
}

// GET /api/todos/:id
func (t *TodoController) getTodo(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := todoID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	todo, err := t.store.GetTodoByID(id, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "todo not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not fetch todo"}
	}

	return todoResponse(todo), nil
}

// PUT /api/todos/:id
func (t *TodoController) updateTodo(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := todoID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.UpdateTodoRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	todo, err := t.store.UpdateTodo(id, user.ID, request.Title, request.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "todo not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update todo"}
	}

	return todoResponse(todo), nil
}

// DELETE /api/todos/:id
func (t *TodoController) deleteTodo(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := todoID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	if err := t.store.DeleteTodo(id, user.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "todo not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete todo"}
	}

	return api.NoContent{}, nil
}

// PATCH /api/todos/:id/toggle
func (t *TodoController) toggleTodo(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := todoID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	todo, err := t.store.ToggleTodo(id, user.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "todo not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not toggle todo"}
	}

	return todoResponse(todo), nil
}
