// Package cursor encodes the opaque pull pagination token.
//
// A token is the compact JSON object {"lastModified":<int>,"clientId":<str>}
// encoded as unpadded base64url. It names the last note of the previous page.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// Cursor is the position of the last note returned by a page.
type Cursor struct {
	LastModified int64
	ClientID     string
}

type wireCursor struct {
	LastModified int64  `json:"lastModified"`
	ClientID     string `json:"clientId"`
}

type rawCursor struct {
	LastModified json.RawMessage `json:"lastModified"`
	ClientID     json.RawMessage `json:"clientId"`
}

// Encode returns the opaque token for c.
func Encode(c Cursor) string {
	// Marshalling two scalar fields cannot fail.
	b, _ := json.Marshal(wireCursor{LastModified: c.LastModified, ClientID: c.ClientID})
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode parses a token produced by Encode. Any malformed input, including
// missing or mistyped fields, yields common.ErrInvalidCursor.
func Decode(s string) (Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return Cursor{}, fmt.Errorf("decode base64: %w", common.ErrInvalidCursor)
	}

	var raw rawCursor
	if err := json.Unmarshal(b, &raw); err != nil {
		return Cursor{}, fmt.Errorf("decode json: %w", common.ErrInvalidCursor)
	}

	lm, ok := parseInt(raw.LastModified)
	if !ok {
		return Cursor{}, fmt.Errorf("lastModified: %w", common.ErrInvalidCursor)
	}

	if len(raw.ClientID) == 0 || raw.ClientID[0] != '"' {
		return Cursor{}, fmt.Errorf("clientId: %w", common.ErrInvalidCursor)
	}
	var id string
	if err := json.Unmarshal(raw.ClientID, &id); err != nil {
		return Cursor{}, fmt.Errorf("clientId: %w", common.ErrInvalidCursor)
	}

	return Cursor{LastModified: lm, ClientID: id}, nil
}

// parseInt accepts a bare JSON integer literal only.
func parseInt(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return 0, false
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
