package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/spilno/spilno-backend/internal/feed/service"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterFeedRoutes(r, service.NewMemoryService())
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	if len(w.Body.Bytes()) > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestPublicationEndpoints(t *testing.T) {
	r := newTestRouter()

	w, created := doJSON(t, r, http.MethodPost, "/publications", map[string]any{"title": "hello", "userId": "u1"})
	require.Equal(t, http.StatusCreated, w.Code)
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	require.Equal(t, "hello", created["title"], "response flattens fields next to id")

	w, _ = doJSON(t, r, http.MethodGet, "/publications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, id, list[0]["id"])

	w, body := doJSON(t, r, http.MethodPut, "/publications/"+id, map[string]any{"title": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Publication updated successfully", body["message"])

	w, body = doJSON(t, r, http.MethodPut, "/publications/does-not-exist", map[string]any{"title": "x"})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Publication not found", body["error"])

	w, body = doJSON(t, r, http.MethodDelete, "/publications/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Publication deleted successfully", body["message"])

	// deleting again succeeds with the same message
	w, body = doJSON(t, r, http.MethodDelete, "/publications/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Publication deleted successfully", body["message"])
}

func TestListPublicationsByUser(t *testing.T) {
	r := newTestRouter()

	w, _ := doJSON(t, r, http.MethodPost, "/publications", map[string]any{"userId": "alice", "title": "a"})
	require.Equal(t, http.StatusCreated, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/publications", map[string]any{"userId": "bob", "title": "b"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/publications/user?userId=alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "a", list[0]["title"])

	// no filter lists everything
	w, _ = doJSON(t, r, http.MethodGet, "/publications/user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
}

func TestCommentEndpoints(t *testing.T) {
	r := newTestRouter()

	w, created := doJSON(t, r, http.MethodPost, "/publications", map[string]any{"title": "p"})
	require.Equal(t, http.StatusCreated, w.Code)
	pubID := created["id"].(string)

	w, c1 := doJSON(t, r, http.MethodPost, "/publications/"+pubID+"/comments", map[string]any{"text": "older", "createdAt": 1000})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, c1["id"])

	w, _ = doJSON(t, r, http.MethodPost, "/publications/"+pubID+"/comments", map[string]any{"text": "newer", "createdAt": 2000})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/publications/"+pubID+"/comments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comments []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	require.Len(t, comments, 2)
	require.Equal(t, "newer", comments[0]["text"])
	require.Equal(t, "older", comments[1]["text"])

	// a publication with no comments lists empty
	w, _ = doJSON(t, r, http.MethodGet, "/publications/other/comments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &comments))
	require.Empty(t, comments)
}

func TestLikeEndpoints(t *testing.T) {
	r := newTestRouter()

	w, count := doJSON(t, r, http.MethodGet, "/publications/p1/likes/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 0, count["count"])

	w, body := doJSON(t, r, http.MethodPost, "/publications/p1/likes", map[string]any{"userId": "u1"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Like added successfully", body["message"])

	// same user again: still one like
	w, _ = doJSON(t, r, http.MethodPost, "/publications/p1/likes", map[string]any{"userId": "u1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, count = doJSON(t, r, http.MethodGet, "/publications/p1/likes/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, count["count"])

	w, body = doJSON(t, r, http.MethodGet, "/publications/p1/likes/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, body["hasLiked"])

	w, body = doJSON(t, r, http.MethodGet, "/publications/p1/likes/u2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, body["hasLiked"])

	w, body = doJSON(t, r, http.MethodDelete, "/publications/p1/likes/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Like removed successfully", body["message"])

	w, count = doJSON(t, r, http.MethodGet, "/publications/p1/likes/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 0, count["count"])
}

func TestAddLikeRequiresUserID(t *testing.T) {
	r := newTestRouter()

	w, body := doJSON(t, r, http.MethodPost, "/publications/p1/likes", map[string]any{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "userId is required", body["error"])
}
