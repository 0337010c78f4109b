package helpers

import (
	"context"
	"regexp"
	"strings"
)

func IsContextDone(ctx context.Context) bool {
	if ctx == nil {
		return true
	}
	select {
	case <-ctx.Done():
		return true
	default:
	}
	return false
}

var fileNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFileName keeps object keys deterministic and path-safe.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	return fileNameSanitizer.ReplaceAllString(name, "")
}
