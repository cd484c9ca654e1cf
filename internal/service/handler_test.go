package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"portfolio_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testGuard(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		common.RespondWithError(c, common.ErrUnauthorized)
		return
	}
	c.Next()
}

func TestHandler_Lifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(NewService(newTestRepo(t), zap.NewNop()), zap.NewNop()).RegisterRoutes(router, testGuard)

	do := func(method, path string, authed bool, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			_ = json.NewEncoder(&buf).Encode(body)
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if authed {
			req.Header.Set("Authorization", "Bearer test")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	body := CreateRequest{IconLink: "/fire.svg", Icon: "fire", Title: "Backend", Description: "APIs and data", Position: 1}

	w := do(http.MethodPost, "/services", false, body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(http.MethodPost, "/services", true, map[string]interface{}{"iconLink": "/x.svg", "icon": "x", "title": "t", "description": "d", "position": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(http.MethodPost, "/services", true, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "/fire.svg", created.IconLink)

	w = do(http.MethodGet, "/services/"+created.ID.String(), false, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(http.MethodPatch, "/services/"+created.ID.String(), true, map[string]interface{}{"description": "Go services"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Go services", updated.Description)

	w = do(http.MethodDelete, "/services/"+created.ID.String(), true, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(http.MethodGet, "/services", false, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Empty(t, all)

	w = do(http.MethodDelete, "/services/bad-id", true, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
