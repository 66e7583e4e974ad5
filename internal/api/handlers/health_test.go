// Package handlers_test provides unit tests for API handlers.
package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/supporthub/conversation-service/internal/api/handlers"
	"github.com/supporthub/conversation-service/tests/mocks"
	"github.com/supporthub/conversation-service/tests/testutils"
)

func TestHealthHandler_Health_AllHealthy(t *testing.T) {
	// Setup
	mockStore := &mocks.MockStore{}
	mockKnowledge := &mocks.MockKnowledgeProvider{}
	mockStore.On("Ping", mock.Anything).Return(nil)
	mockKnowledge.On("Ping", mock.Anything).Return(nil)

	handler := handlers.NewHealthHandler(mockStore, mockKnowledge)

	router := testutils.SetupTestRouter()
	router.GET("/health", handler.Health)

	// Execute
	w := testutils.PerformRequest(router, "GET", "/health", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusOK, w)

	var response handlers.HealthResponse
	testutils.ParseJSONResponse(t, w, &response)

	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, "healthy", response.Components["store"])
	assert.Equal(t, "healthy", response.Components["knowledge"])
}

func TestHealthHandler_Health_StoreUnhealthy(t *testing.T) {
	// Setup
	mockStore := &mocks.MockStore{}
	mockKnowledge := &mocks.MockKnowledgeProvider{}
	mockStore.On("Ping", mock.Anything).Return(assert.AnError)
	mockKnowledge.On("Ping", mock.Anything).Return(nil)

	handler := handlers.NewHealthHandler(mockStore, mockKnowledge)

	router := testutils.SetupTestRouter()
	router.GET("/health", handler.Health)

	// Execute
	w := testutils.PerformRequest(router, "GET", "/health", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusServiceUnavailable, w)

	var response handlers.HealthResponse
	testutils.ParseJSONResponse(t, w, &response)

	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "unhealthy", response.Components["store"])
	assert.Equal(t, "healthy", response.Components["knowledge"])
}

func TestHealthHandler_Health_KnowledgeUnhealthy(t *testing.T) {
	// Setup
	mockStore := &mocks.MockStore{}
	mockKnowledge := &mocks.MockKnowledgeProvider{}
	mockStore.On("Ping", mock.Anything).Return(nil)
	mockKnowledge.On("Ping", mock.Anything).Return(assert.AnError)

	handler := handlers.NewHealthHandler(mockStore, mockKnowledge)

	router := testutils.SetupTestRouter()
	router.GET("/health", handler.Health)

	// Execute
	w := testutils.PerformRequest(router, "GET", "/health", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusServiceUnavailable, w)

	var response handlers.HealthResponse
	testutils.ParseJSONResponse(t, w, &response)

	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "unhealthy", response.Components["knowledge"])
}

func TestHealthHandler_Health_WithoutKnowledgeProvider(t *testing.T) {
	// Setup
	mockStore := &mocks.MockStore{}
	mockStore.On("Ping", mock.Anything).Return(nil)

	handler := handlers.NewHealthHandler(mockStore, nil)

	router := testutils.SetupTestRouter()
	router.GET("/health", handler.Health)

	// Execute
	w := testutils.PerformRequest(router, "GET", "/health", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusOK, w)

	var response handlers.HealthResponse
	testutils.ParseJSONResponse(t, w, &response)

	assert.Equal(t, "healthy", response.Status)
	assert.NotContains(t, response.Components, "knowledge")
}

func TestHealthHandler_Ready_Success(t *testing.T) {
	// Setup
	mockStore := &mocks.MockStore{}
	mockStore.On("Ping", mock.Anything).Return(nil)

	handler := handlers.NewHealthHandler(mockStore, nil)

	router := testutils.SetupTestRouter()
	router.GET("/ready", handler.Ready)

	// Execute
	w := testutils.PerformRequest(router, "GET", "/ready", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusOK, w)
	assert.Contains(t, w.Body.String(), "ready")
}

func TestHealthHandler_Ready_StoreUnavailable(t *testing.T) {
	// Setup
	mockStore := &mocks.MockStore{}
	mockStore.On("Ping", mock.Anything).Return(assert.AnError)

	handler := handlers.NewHealthHandler(mockStore, nil)

	router := testutils.SetupTestRouter()
	router.GET("/ready", handler.Ready)

	// Execute
	w := testutils.PerformRequest(router, "GET", "/ready", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusServiceUnavailable, w)
	assert.Contains(t, w.Body.String(), "store unavailable")
}

func TestHealthHandler_Live(t *testing.T) {
	// Setup
	handler := handlers.NewHealthHandler(&mocks.MockStore{}, nil)

	router := testutils.SetupTestRouter()
	router.GET("/live", handler.Live)

	// Execute
	w := testutils.PerformRequest(router, "GET", "/live", nil, nil)

	// Assert
	testutils.AssertStatusCode(t, http.StatusOK, w)
	assert.Contains(t, w.Body.String(), "alive")
}
