package utils

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// CacheInvalidator tells the hotel-listing cache elsewhere in the system
// that a hotel's occupancy changed. Fire-and-forget: a lost notification
// only delays a cache refresh, it never affects booking correctness, so
// failures are logged and swallowed.
type CacheInvalidator struct {
	Endpoint string
	Client   *http.Client
}

func NewCacheInvalidator(endpoint string) *CacheInvalidator {
	return &CacheInvalidator{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 3 * time.Second},
	}
}

// NotifyOccupancyChanged posts the hotel id in a background goroutine.
// Safe on a nil receiver and with an empty endpoint (both no-ops), so tests
// and minimal deployments need no stub.
func (ci *CacheInvalidator) NotifyOccupancyChanged(hotelID uint) {
	if ci == nil || ci.Endpoint == "" {
		return
	}
	go func() {
		body, _ := json.Marshal(map[string]uint{"hotel_id": hotelID})
		resp, err := ci.Client.Post(ci.Endpoint, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("warning: cache invalidation for hotel %d failed: %v", hotelID, err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			log.Printf("warning: cache invalidation for hotel %d returned %d", hotelID, resp.StatusCode)
		}
	}()
}
