package app

import (
	"net/http"
	"testing"

	"github.com/bkarakus/cinema-booking-system/api"
	"github.com/stretchr/testify/assert"
)

func TestGetHealth(t *testing.T) {
	app := newTestApplication()

	w := executeRequest(t, app, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse[api.HealthcheckResponse](t, w)
	assert.Equal(t, "UP", resp.Status)
	assert.Equal(t, "test", resp.SystemInfo.Environment)
}
