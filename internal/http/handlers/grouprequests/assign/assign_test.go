package assign

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/hotel-booking/internal/http/middlewarectx"
	"github.com/magabrotheeeer/hotel-booking/internal/models"
	"github.com/magabrotheeeer/hotel-booking/internal/services/grouprequest"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Assign(ctx context.Context, actor models.Actor, id, liaisonID string) error {
	return m.Called(ctx, actor, id, liaisonID).Error(0)
}

const (
	requestID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	liaisonID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
)

func TestAssignHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	admin := models.Actor{ID: "a-1", Role: models.RoleAdmin}

	tests := []struct {
		name           string
		body           string
		callService    bool
		serviceErr     error
		expectedStatus int
	}{
		{name: "assigned", body: `{"liaison_id":"` + liaisonID + `"}`, callService: true,
			expectedStatus: http.StatusOK},
		{name: "assignee is a guest", body: `{"liaison_id":"` + liaisonID + `"}`, callService: true,
			serviceErr: grouprequest.ErrNotLiaison, expectedStatus: http.StatusUnprocessableEntity},
		{name: "missing request", body: `{"liaison_id":"` + liaisonID + `"}`, callService: true,
			serviceErr: grouprequest.ErrNotFound, expectedStatus: http.StatusNotFound},
		{name: "liaison id is not a uuid", body: `{"liaison_id":"bob"}`,
			expectedStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.callService {
				svc.On("Assign", mock.Anything, admin, requestID, liaisonID).Return(tt.serviceErr).Once()
			}

			req := httptest.NewRequest(http.MethodPut, "/admin/group-requests/"+requestID+"/assign",
				strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", requestID)
			ctx := middlewarectx.WithActor(context.WithValue(req.Context(), chi.RouteCtxKey, rctx), admin)
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req.WithContext(ctx))

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
