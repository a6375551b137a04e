package event

import "encoding/json"

// DecodePayload extracts a typed payload from an event. Payloads published
// through the MemoryBus are still the concrete struct and assert directly;
// anything replayed from the dead-letter file arrives as generic JSON and
// goes through a marshal round trip instead.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}
