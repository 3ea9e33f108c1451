package book

import (
	"encoding/base64"
	"encoding/json"
)

// CursorData is the position after which the next page of the library starts.
// Books are listed by title, then id.
type CursorData struct {
	AfterTitle string `json:"after_title,omitempty"`
	AfterID    string `json:"after_id,omitempty"`
}

// CursorAfter returns the cursor positioned after b.
func CursorAfter(b Book) CursorData {
	return CursorData{AfterTitle: b.Title, AfterID: b.ID}
}

// EncodeCursor encodes cursor data to a base64 string
func EncodeCursor(data CursorData) string {
	if data.AfterID == "" {
		return ""
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a base64 cursor string to CursorData
func DecodeCursor(cursor string) (CursorData, error) {
	if cursor == "" {
		return CursorData{}, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return CursorData{}, err
	}

	var data CursorData
	err = json.Unmarshal(decoded, &data)
	return data, err
}
