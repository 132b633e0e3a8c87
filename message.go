package wsclient

import (
	json "github.com/json-iterator/go"
)

// encodePayload renders an outbound message as the body of a text frame.
// Strings and byte slices pass through verbatim, everything else is
// serialized as JSON.
func encodePayload(message any) ([]byte, error) {
	switch m := message.(type) {
	case string:
		return []byte(m), nil
	case []byte:
		return m, nil
	default:
		return json.Marshal(message)
	}
}

// decodePayload turns an inbound text frame into a structured value when the
// body parses as JSON, otherwise it returns the raw text unchanged.
func decodePayload(data []byte) any {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return string(data)
	}
	return value
}
