package rbac

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-payroll/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct{}

func (fakeService) LoadOrganisationPolicy(context.Context, string) error { return nil }

func (fakeService) Enforce(_ context.Context, req domain.EnforceRequest) (bool, error) {
	return req.Resource == ResourcePayroll && req.Action == ActionRead, nil
}

type enforceEnvelope struct {
	Ok   bool                   `json:"ok"`
	Data domain.EnforceResponse `json:"data"`
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/rbac/enforce", NewHandler(fakeService{}).Enforce)

	t.Run("allowed", func(t *testing.T) {
		body, _ := json.Marshal(domain.EnforceRequest{
			ActorID: "u-1", OrganisationID: "org-1", Resource: ResourcePayroll, Action: ActionRead,
		})
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp enforceEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Ok)
		assert.True(t, resp.Data.Allowed)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewReader([]byte(`{"actor_id":"u-1"}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
