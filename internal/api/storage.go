package api

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rulelens/rulelens-cli/internal/utils"
)

// storagePath maps a resource ID to its cache file.
func (c *Client) storagePath(id string) string {
	return filepath.Join(c.storageDir, strings.ReplaceAll(id, "/", "_")+".json")
}

// loadStored returns a cached finished payload for the resource, if any.
// Unreadable or unfinished cache entries are ignored so the resource gets
// fetched again.
func (c *Client) loadStored(id string) ([]byte, bool) {
	if c.storageDir == "" {
		return nil, false
	}
	body, err := os.ReadFile(c.storagePath(id))
	if err != nil {
		return nil, false
	}
	code, err := resourceStatus(body)
	if err != nil || code != StatusFinished {
		return nil, false
	}
	return body, true
}

// store caches a finished payload. Cache failures are not fatal: the caller
// already holds the payload.
func (c *Client) store(id string, body []byte) {
	if c.storageDir == "" {
		return
	}
	if err := utils.EnsureDir(c.storageDir); err != nil {
		return
	}
	_ = utils.SafeWriteFile(c.storagePath(id), body)
}
