package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedCount struct {
	n   int64
	err error
}

func (f fixedCount) Count(context.Context) (int64, error) { return f.n, f.err }

var (
	up   = PingFunc(func(context.Context) error { return nil })
	down = PingFunc(func(context.Context) error { return errors.New("connection refused") })
)

func TestStatus(t *testing.T) {
	ctx := context.Background()

	svc := NewService(up, up, fixedCount{}, fixedCount{}, zap.NewNop())
	assert.Equal(t, Status{Cache: true, DB: true}, svc.Status(ctx))

	svc = NewService(down, up, fixedCount{}, fixedCount{}, zap.NewNop())
	assert.Equal(t, Status{Cache: false, DB: true}, svc.Status(ctx))
}

func TestStats(t *testing.T) {
	ctx := context.Background()

	svc := NewService(up, up, fixedCount{n: 4}, fixedCount{n: 30}, zap.NewNop())
	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Users: 4, Files: 30}, stats)

	svc = NewService(up, up, fixedCount{n: 4}, fixedCount{err: errors.New("gone")}, zap.NewNop())
	_, err = svc.Stats(ctx)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewService(up, down, fixedCount{n: 1}, fixedCount{n: 2}, nil)).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data Status `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, Status{Cache: true, DB: false}, body.Data)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"users":1,"files":2}}`, w.Body.String())
}
