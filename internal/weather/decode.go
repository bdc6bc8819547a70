package weather

import (
	"encoding/json"
	"fmt"
)

// Decode parses a One Call payload, whether fresh from the API or replayed
// from the cache.
func Decode(payload []byte) (*OneCallResponse, error) {
	var data OneCallResponse
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decode forecast payload: %w", err)
	}
	return &data, nil
}
