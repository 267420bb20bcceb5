// Package storagex maps stored image references to object-storage keys and
// generates keys for new uploads.
//
// An image reference is either an absolute URL (public-bucket deployments)
// or a bare storage key (private-bucket deployments). Cleanup and signing
// both need the bare key.
package storagex

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var httpScheme = regexp.MustCompile(`(?i)^https?://`)

// IsAbsoluteURL reports whether ref carries an http(s) scheme.
func IsAbsoluteURL(ref string) bool {
	return httpScheme.MatchString(ref)
}

// ResolveObjectKey maps an image reference to its object-storage key.
//
// Bare keys are returned unchanged. For absolute URLs the expected public
// pattern is .../public/<bucket>/<key...>; when found, the percent-decoded
// remainder is returned. Otherwise the final path segment is used as a
// fallback. Returns ok=false only when the reference cannot be interpreted
// at all. Never panics; malformed input degrades to the fallback.
func ResolveObjectKey(ref string, bucket string) (string, bool) {
	if !IsAbsoluteURL(ref) {
		return ref, true
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}

	parts := strings.Split(u.EscapedPath(), "/")
	for i, p := range parts {
		if p != "public" {
			continue
		}
		if i+1 < len(parts) && parts[i+1] == bucket {
			rest := strings.Join(parts[i+2:], "/")
			decoded, err := url.PathUnescape(rest)
			if err != nil {
				return "", false
			}
			return decoded, true
		}
		break
	}

	// fallback: last path segment
	if len(parts) == 0 {
		return "", false
	}
	last := parts[len(parts)-1]
	decoded, err := url.PathUnescape(last)
	if err != nil {
		return "", false
	}
	return decoded, true
}

// NewObjectName generates a key for a fresh upload in the form
// <unix-millis>-<random-suffix>.<ext>. An empty extension falls back
// to "bin".
func NewObjectName(ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = "bin"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), suffix, ext)
}
