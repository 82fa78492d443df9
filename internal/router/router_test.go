package router_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"geoaddr/internal/config"
	"geoaddr/internal/domain"
	"geoaddr/internal/handler"
	"geoaddr/internal/router"
	"geoaddr/mocks"
)

func newRouter() (*gin.Engine, *mocks.MockChannelMessageService, *mocks.MockExtractService) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Webhook: config.WebhookConfig{Secret: "sekret"},
	}
	extractSvc := new(mocks.MockExtractService)
	channelSvc := new(mocks.MockChannelMessageService)
	r := router.Setup(cfg, nil,
		handler.NewExtractHandler(extractSvc, new(mocks.MockReportService)),
		handler.NewChannelMessageHandler(channelSvc),
		handler.NewHealthHandler(nil),
	)
	return r, channelSvc, extractSvc
}

func TestRouter_Health(t *testing.T) {
	r, _, _ := newRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_ChannelMessagesRequireSecret(t *testing.T) {
	r, channelSvc, _ := newRouter()
	body := []byte(`{"channel_id":"chan1","message_id":1,"raw_message":"test"}`)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/channel-messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	channelSvc.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)

	channelSvc.On("Ingest", mock.Anything, mock.Anything).Return(&domain.ChannelMessage{ID: 1}, nil)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/api/v1/channel-messages?secret=sekret", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRouter_PointsArePublic(t *testing.T) {
	r, channelSvc, _ := newRouter()
	channelSvc.On("Points", mock.Anything, 500).Return([]domain.MapPoint{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/points", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Backends(t *testing.T) {
	r, _, extractSvc := newRouter()
	extractSvc.On("Backends").Return([]string{"groq"})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/backends", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Body.String(), "groq")
}

func TestRouter_SwaggerDoc(t *testing.T) {
	r, _, _ := newRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/extract/batch"`)
	assert.Contains(t, w.Body.String(), `"basePath": "/api/v1"`)
}
