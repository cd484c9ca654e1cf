package education

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

	valid := map[string]interface{}{
		"degree":      "Bachelor of Science",
		"institute":   "University of Example",
		"startDate":   "2018-09-01",
		"result":      "3.8 GPA",
		"modeOfStudy": "On-Campus",
		"location":    map[string]interface{}{"country": "Kenya"},
		"activities": map[string]interface{}{
			"certifications": []map[string]interface{}{
				{"name": "CKA", "issuingOrganization": "CNCF", "issueDate": "2023-01-15"},
			},
		},
	}

	w := do(http.MethodPost, "/education", false, valid)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(http.MethodPost, "/education", true, map[string]interface{}{
		"degree": "BSc", "institute": "U", "startDate": "2018", "result": "A",
		"location": map[string]interface{}{"city": "Nairobi"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	w = do(http.MethodPost, "/education", true, map[string]interface{}{
		"degree": "BSc", "institute": "U", "startDate": "2018", "result": "A", "modeOfStudy": "Remote",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(http.MethodPost, "/education", true, valid)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Kenya", created.Location.Country)
	assert.Equal(t, []Course{}, created.Courses)
	require.NotNil(t, created.Activities)
	assert.Len(t, created.Activities.Certifications, 1)

	w = do(http.MethodGet, "/education", false, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	w = do(http.MethodPatch, "/education/"+created.ID.String(), true, map[string]interface{}{"displayOrder": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 3, updated.DisplayOrder)

	w = do(http.MethodDelete, "/education/"+created.ID.String(), true, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &deleted))
	assert.Equal(t, true, deleted["deleted"])
	assert.Equal(t, created.ID.String(), deleted["id"])

	w = do(http.MethodGet, "/education/"+created.ID.String(), false, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(http.MethodGet, "/education/nope", false, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
