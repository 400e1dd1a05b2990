package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash returns the hex SHA-256 of data. Stored documents are keyed by the
// hash of their bytes, so an edited document never hits a stale artifact.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// kindKey builds "<kind>:<hash>" over the JSON encoding of parts, so option
// structs contribute by value.
func kindKey(kind string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		data = fmt.Appendf(nil, "%#v", parts)
	}
	return kind + ":" + Hash(data)
}
