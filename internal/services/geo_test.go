package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGeoLookupSkipsLocalIP(t *testing.T) {
	svc := NewGeoService(zap.NewNop())

	assert.Equal(t, UnknownLocation, svc.Lookup("127.0.0.1"), "回环地址不查询")
	assert.Equal(t, UnknownLocation, svc.Lookup("192.168.1.10"), "内网地址不查询")
	assert.Equal(t, UnknownLocation, svc.Lookup("not-an-ip"))
}

func TestGeoLookupSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","country":"China","city":"Beijing"}`))
	}))
	defer server.Close()

	svc := NewGeoService(zap.NewNop())
	svc.BaseURL = server.URL

	assert.Equal(t, "China, Beijing", svc.Lookup("8.8.8.8"))
}

func TestGeoLookupDegradesToUnknown(t *testing.T) {
	// 接口返回失败状态
	failServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail"}`))
	}))
	defer failServer.Close()

	svc := NewGeoService(zap.NewNop())
	svc.BaseURL = failServer.URL
	assert.Equal(t, UnknownLocation, svc.Lookup("8.8.8.8"))

	// 接口返回 500
	errServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer errServer.Close()

	svc.BaseURL = errServer.URL
	assert.Equal(t, UnknownLocation, svc.Lookup("8.8.8.8"))

	// 接口不可达
	svc.BaseURL = "http://127.0.0.1:1"
	assert.Equal(t, UnknownLocation, svc.Lookup("8.8.8.8"))
}
