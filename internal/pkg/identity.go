package pkg

import (
	"net"
	"net/http"
	"strings"
)

const ForwardedForHeader = "X-Forwarded-For"

// ClientIdentity derives the identity of the client behind r. With
// trustForwarded the first X-Forwarded-For entry wins; otherwise, or when the
// header is empty, the host part of the connection address is used so that
// one browser keeps one identity across connections.
func ClientIdentity(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if forwarded := r.Header.Get(ForwardedForHeader); forwarded != "" {
			first, _, _ := strings.Cut(forwarded, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
