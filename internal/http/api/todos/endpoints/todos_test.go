package endpoints

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/evotodo/backend/internal/db"
	"github.com/evotodo/backend/internal/http/api"
	authapi "github.com/evotodo/backend/internal/http/api/auth/endpoints"
	authpackets "github.com/evotodo/backend/internal/http/api/auth/packets"
	"github.com/evotodo/backend/internal/http/api/todos/packets"
)

const testSecret = "test-secret"

func todoRouter(store db.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api"},
		authapi.AuthModule(testSecret, 24*time.Hour, store),
	)
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api",
		Auth:      true,
		SecretKey: testSecret,
		Store:     store,
	},
		TodoModule(store),
	)
	return r
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signup(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"email":    email,
		"password": "password1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp authpackets.AuthResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.AccessToken
}

func createTodo(t *testing.T, router *gin.Engine, token string, body gin.H) packets.TodoResponse {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/todos", token, body)
	assert.Equal(t, http.StatusCreated, w.Code)

	var todo packets.TodoResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &todo))
	return todo
}

func TestTodosRequireToken(t *testing.T) {
	router := todoRouter(db.NewTestStore())

	w := doJSON(router, http.MethodGet, "/api/todos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/todos", "", gin.H{"title": "Buy milk"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAndListTodos(t *testing.T) {
	router := todoRouter(db.NewTestStore())
	token := signup(t, router, "a@x.com")

	todo := createTodo(t, router, token, gin.H{"title": "Buy milk"})
	assert.Equal(t, "Buy milk", todo.Title)
	assert.False(t, todo.Completed)
	assert.Nil(t, todo.Description)
	assert.NotZero(t, todo.ID)

	desc := "with oat milk"
	second := createTodo(t, router, token, gin.H{"title": "Buy coffee", "description": desc})
	assert.NotNil(t, second.Description)
	assert.Equal(t, desc, *second.Description)

	w := doJSON(router, http.MethodGet, "/api/todos", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var list packets.TodoListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Todos, 2)
	assert.Equal(t, "Buy milk", list.Todos[0].Title)
	assert.Equal(t, "Buy coffee", list.Todos[1].Title)
}

func TestCreateTodoTitleBoundaries(t *testing.T) {
	router := todoRouter(db.NewTestStore())
	token := signup(t, router, "a@x.com")

	// empty title rejected
	w := doJSON(router, http.MethodPost, "/api/todos", token, gin.H{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// missing title rejected
	w = doJSON(router, http.MethodPost, "/api/todos", token, gin.H{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// exactly 500 characters accepted
	todo := createTodo(t, router, token, gin.H{"title": strings.Repeat("a", 500)})
	assert.Len(t, todo.Title, 500)

	// 501 characters rejected
	w = doJSON(router, http.MethodPost, "/api/todos", token, gin.H{"title": strings.Repeat("a", 501)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTodoOwnerScoping(t *testing.T) {
	router := todoRouter(db.NewTestStore())
	ownerToken := signup(t, router, "a@x.com")
	otherToken := signup(t, router, "b@x.com")

	todo := createTodo(t, router, ownerToken, gin.H{"title": "Buy milk"})
	path := fmt.Sprintf("/api/todos/%d", todo.ID)

	// owner sees it
	w := doJSON(router, http.MethodGet, path, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// another user gets the same 404 as for a missing row
	w = doJSON(router, http.MethodGet, path, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	missing := doJSON(router, http.MethodGet, "/api/todos/999999", otherToken, nil)
	assert.Equal(t, missing.Body.String(), w.Body.String())

	// and cannot mutate or delete it either
	w = doJSON(router, http.MethodPut, path, otherToken, gin.H{"title": "stolen"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(router, http.MethodPatch, path+"/toggle", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(router, http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// still intact for the owner
	w = doJSON(router, http.MethodGet, path, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var got packets.TodoResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Buy milk", got.Title)
}

func TestPartialUpdatePreservesFields(t *testing.T) {
	router := todoRouter(db.NewTestStore())
	token := signup(t, router, "a@x.com")

	todo := createTodo(t, router, token, gin.H{"title": "A", "description": "B"})
	path := fmt.Sprintf("/api/todos/%d", todo.ID)

	w := doJSON(router, http.MethodPut, path, token, gin.H{"description": "C"})
	assert.Equal(t, http.StatusOK, w.Code)

	var updated packets.TodoResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "A", updated.Title)
	assert.NotNil(t, updated.Description)
	assert.Equal(t, "C", *updated.Description)

	// and the other way round
	w = doJSON(router, http.MethodPut, path, token, gin.H{"title": "D"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "D", updated.Title)
	assert.Equal(t, "C", *updated.Description)
}

func TestUpdateTitleValidation(t *testing.T) {
	router := todoRouter(db.NewTestStore())
	token := signup(t, router, "a@x.com")

	todo := createTodo(t, router, token, gin.H{"title": "A"})
	path := fmt.Sprintf("/api/todos/%d", todo.ID)

	// a supplied empty title is rejected, not skipped
	w := doJSON(router, http.MethodPut, path, token, gin.H{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodPut, path, token, gin.H{"title": strings.Repeat("a", 501)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleTwiceRestoresState(t *testing.T) {
	router := todoRouter(db.NewTestStore())
	token := signup(t, router, "a@x.com")

	todo := createTodo(t, router, token, gin.H{"title": "Buy milk"})
	path := fmt.Sprintf("/api/todos/%d/toggle", todo.ID)

	w := doJSON(router, http.MethodPatch, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var first packets.TodoResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.True(t, first.Completed)

	w = doJSON(router, http.MethodPatch, path, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var second packets.TodoResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.False(t, second.Completed)

	created, err := time.Parse(time.RFC3339Nano, todo.UpdatedAt)
	assert.NoError(t, err)
	afterFirst, err := time.Parse(time.RFC3339Nano, first.UpdatedAt)
	assert.NoError(t, err)
	afterSecond, err := time.Parse(time.RFC3339Nano, second.UpdatedAt)
	assert.NoError(t, err)
	assert.True(t, afterFirst.After(created), "updated_at should advance on first toggle")
	assert.True(t, afterSecond.After(afterFirst), "updated_at should advance on second toggle")
}

func TestDeleteTodo(t *testing.T) {
	router := todoRouter(db.NewTestStore())
	token := signup(t, router, "a@x.com")

	todo := createTodo(t, router, token, gin.H{"title": "Buy milk"})
	path := fmt.Sprintf("/api/todos/%d", todo.ID)

	w := doJSON(router, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvalidTodoID(t *testing.T) {
	router := todoRouter(db.NewTestStore())
	token := signup(t, router, "a@x.com")

	w := doJSON(router, http.MethodGet, "/api/todos/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
