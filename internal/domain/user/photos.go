package user

import (
	"encoding/json"
	"strings"
)

// DecodePhotos reads the serialized life_photos column. It never fails:
// NULL, empty, "null" and malformed text all yield an empty slice.
func DecodePhotos(raw *string) []string {
	if raw == nil {
		return []string{}
	}
	s := strings.TrimSpace(*raw)
	if s == "" || s == "null" {
		return []string{}
	}
	var photos []string
	if err := json.Unmarshal([]byte(s), &photos); err != nil || photos == nil {
		return []string{}
	}
	return photos
}

// EncodePhotos always produces a JSON array, "[]" for nil.
func EncodePhotos(photos []string) string {
	if photos == nil {
		photos = []string{}
	}
	b, err := json.Marshal(photos)
	if err != nil {
		return "[]"
	}
	return string(b)
}
