package handler

import (
	"fmt"
	"net/http"
	"strings"
)

// digestETag formats a template digest as a strong ETag.
func digestETag(digest string) string {
	return fmt.Sprintf(`"%s"`, digest)
}

// setDigestETag sets the ETag header from a template digest.
func setDigestETag(w http.ResponseWriter, digest string) {
	w.Header().Set("ETag", digestETag(digest))
}

// notModified reports whether the If-None-Match header already names digest.
func notModified(r *http.Request, digest string) bool {
	ifNoneMatch := r.Header.Get("If-None-Match")
	if ifNoneMatch == "" {
		return false
	}
	current := digestETag(digest)
	for _, tag := range strings.Split(ifNoneMatch, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "*" || tag == current {
			return true
		}
	}
	return false
}
