package whatsapp

import (
	"encoding/json"
	"os"
)

// Session files smaller than this cannot hold a real storage state and are
// treated as corrupt.
const minSessionBytes = 10

// EnsureSessionFile validates the persisted storage state at path and
// deletes it when unreadable, suspiciously small or not valid JSON.
// It reports whether a usable session file remains. Concurrent runs race on
// this file by design; last writer wins and corruption is recovered here
// rather than guarded with a lock.
func EnsureSessionFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.Size() < minSessionBytes {
		_ = os.Remove(path)
		return false
	}
	b, err := os.ReadFile(path)
	if err != nil || !json.Valid(b) {
		_ = os.Remove(path)
		return false
	}
	return true
}
