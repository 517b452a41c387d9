package files

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"filesmanager/internal/blob"
	"filesmanager/internal/database"
	"filesmanager/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type fileJSON struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	IsPublic  bool        `json:"isPublic"`
	ParentID  interface{} `json:"parentId"`
	LocalPath string      `json:"localPath"`
}

// fakeSession trusts X-Token as the user id.
func fakeSession(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok := c.GetHeader("X-Token"); tok != "" {
			c.Set("user_id", tok)
		} else if required {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": gin.H{"code": "UNAUTHORIZED", "message": "Unauthorized"}})
			return
		}
		c.Next()
	}
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(filepath.Join(t.TempDir(), "files.db"), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	store, err := blob.NewStore(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)

	svc := NewService(repository.NewFileRepository(db), store, zap.NewNop(), nil)
	h := NewHandler(svc, zap.NewNop())

	r := gin.New()
	protected := r.Group("/")
	protected.Use(fakeSession(true))
	optional := r.Group("/")
	optional.Use(fakeSession(false))
	h.RegisterRoutes(protected, optional)
	return r
}

func do(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func createFile(t *testing.T, r http.Handler, token string, body map[string]any) fileJSON {
	t.Helper()
	w := do(t, r, http.MethodPost, "/files", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var f fileJSON
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &f))
	return f
}

func TestHandler_CreateAndRead(t *testing.T) {
	r := setupRouter(t)

	f := createFile(t, r, "1", map[string]any{
		"name":     "hello.txt",
		"type":     "file",
		"isPublic": true,
		"data":     b64("Hello Webstack!\n"),
	})
	assert.Equal(t, "1", f.UserID)
	assert.Equal(t, float64(0), f.ParentID)

	w := do(t, r, http.MethodGet, "/files/"+f.ID+"/data", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello Webstack!\n", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestHandler_CreateErrors(t *testing.T) {
	r := setupRouter(t)
	folder := createFile(t, r, "1", map[string]any{"name": "dir", "type": "folder"})
	file := createFile(t, r, "1", map[string]any{"name": "a.txt", "type": "file", "data": b64("a")})

	tests := []struct {
		name string
		body map[string]any
		code string
	}{
		{"missing name", map[string]any{}, "MISSING_NAME"},
		{"missing type", map[string]any{"name": "x"}, "MISSING_TYPE"},
		{"missing data", map[string]any{"name": "x", "type": "image"}, "MISSING_DATA"},
		{"invalid data", map[string]any{"name": "x", "type": "file", "data": "***"}, "INVALID_DATA"},
		{"parent missing", map[string]any{"name": "x", "type": "folder", "parentId": "9999"}, "PARENT_NOT_FOUND"},
		{"parent not folder", map[string]any{"name": "x", "type": "folder", "parentId": file.ID}, "PARENT_NOT_FOLDER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/files", "1", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			env := decode(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}

	child := createFile(t, r, "1", map[string]any{"name": "c", "type": "folder", "parentId": folder.ID})
	assert.Equal(t, folder.ID, child.ParentID)
}

func TestHandler_RequiresSession(t *testing.T) {
	r := setupRouter(t)

	for _, path := range []string{"/files", "/files/1"} {
		w := do(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := do(t, r, http.MethodPost, "/files", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_ShowOwnership(t *testing.T) {
	r := setupRouter(t)
	f := createFile(t, r, "1", map[string]any{"name": "dir", "type": "folder", "isPublic": true})

	w := do(t, r, http.MethodGet, "/files/"+f.ID, "1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/files/"+f.ID, "2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/files/not-an-id", "1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Visibility(t *testing.T) {
	r := setupRouter(t)
	f := createFile(t, r, "1", map[string]any{"name": "secret.txt", "type": "file", "data": b64("s3cret")})
	dataPath := "/files/" + f.ID + "/data"

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, dataPath, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, dataPath, "2", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, dataPath, "1", nil).Code)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPut, "/files/"+f.ID+"/publish", "2", nil).Code)

	w := do(t, r, http.MethodPut, "/files/"+f.ID+"/publish", "1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got fileJSON
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &got))
	assert.True(t, got.IsPublic)

	w = do(t, r, http.MethodGet, dataPath, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s3cret", w.Body.String())

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPut, "/files/"+f.ID+"/unpublish", "1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, dataPath, "", nil).Code)
}

func TestHandler_FolderHasNoContent(t *testing.T) {
	r := setupRouter(t)
	f := createFile(t, r, "1", map[string]any{"name": "dir", "type": "folder", "isPublic": true})

	w := do(t, r, http.MethodGet, "/files/"+f.ID+"/data", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_OPERATION", decode(t, w).Error.Code)
}

func TestHandler_ListPagination(t *testing.T) {
	r := setupRouter(t)
	folder := createFile(t, r, "1", map[string]any{"name": "dir", "type": "folder"})

	for i := 0; i < 25; i++ {
		createFile(t, r, "1", map[string]any{
			"name":     fmt.Sprintf("f%02d", i),
			"type":     "file",
			"parentId": folder.ID,
			"data":     b64("x"),
		})
	}

	list := func(query, token string) []fileJSON {
		w := do(t, r, http.MethodGet, "/files"+query, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out []fileJSON
		require.NoError(t, json.Unmarshal(decode(t, w).Data, &out))
		return out
	}

	first := list("?parentId="+folder.ID, "1")
	require.Len(t, first, PageSize)
	assert.Equal(t, "f00", first[0].Name)

	second := list("?parentId="+folder.ID+"&page=1", "1")
	require.Len(t, second, 5)
	assert.Equal(t, "f20", second[0].Name)

	assert.Empty(t, list("?parentId="+folder.ID+"&page=2", "1"))
	assert.Len(t, list("?parentId="+folder.ID+"&page=abc", "1"), PageSize)

	root := list("", "1")
	require.Len(t, root, 1)
	assert.Equal(t, "dir", root[0].Name)

	// no ownership filter on listing
	assert.Len(t, list("?parentId="+folder.ID, "2"), PageSize)

	w := do(t, r, http.MethodGet, "/files?parentId=424242", "1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", string(decode(t, w).Data))
}
