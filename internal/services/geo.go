package services

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const UnknownLocation = "Unknown"

// GeoService 通过 ip-api.com 查询 IP 地理位置。
// 查询是尽力而为的：超时、非 200、解析失败都降级为 Unknown，绝不影响调用方。
type GeoService struct {
	Client  *http.Client
	BaseURL string
	logger  *zap.Logger
}

func NewGeoService(logger *zap.Logger) *GeoService {
	return &GeoService{
		Client:  &http.Client{Timeout: 3 * time.Second},
		BaseURL: "http://ip-api.com/json",
		logger:  logger,
	}
}

type geoResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// Lookup 返回 "国家, 城市"，失败时返回 Unknown
func (s *GeoService) Lookup(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() {
		return UnknownLocation
	}

	resp, err := s.Client.Get(fmt.Sprintf("%s/%s", s.BaseURL, ip))
	if err != nil {
		s.logger.Debug("geo lookup failed", zap.String("ip", ip), zap.Error(err))
		return UnknownLocation
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UnknownLocation
	}

	var data geoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		s.logger.Debug("geo lookup decode failed", zap.String("ip", ip), zap.Error(err))
		return UnknownLocation
	}
	if data.Status != "success" {
		return UnknownLocation
	}
	return fmt.Sprintf("%s, %s", data.Country, data.City)
}
