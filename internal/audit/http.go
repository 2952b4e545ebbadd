package audit

import (
	"net"
	"net/http"
	"strings"

	"vineyard-planner/internal/auth"
)

const requestIDHeader = "X-Request-ID"

// FromRequest starts an entry for an action taken through the HTTP API.
// Actor and role come from the authenticated identity; the request id is the
// one assigned by the access-log middleware.
func FromRequest(r *http.Request, action, resourceType, resourceID string) Entry {
	entry := Entry{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
	if r == nil {
		return entry
	}
	ctx := r.Context()
	entry.Actor = auth.OwnerIDFromContext(ctx)
	entry.Role = string(auth.RoleFromContext(ctx))
	entry.IP = ClientIP(r)
	entry.UserAgent = r.UserAgent()
	entry.RequestID = strings.TrimSpace(r.Header.Get(requestIDHeader))
	return entry
}

// ClientIP returns the originating address of a request that may have passed
// through the winery's reverse proxy. Forwarded wins over X-Forwarded-For,
// then X-Real-IP, then the socket peer.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ip := forwardedFor(r.Header.Get("Forwarded")); ip != "" {
		return ip
	}
	if chain := r.Header.Get("X-Forwarded-For"); chain != "" {
		first, _, _ := strings.Cut(chain, ",")
		if ip := stripPort(first); ip != "" {
			return ip
		}
	}
	if ip := stripPort(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return stripPort(r.RemoteAddr)
}

// forwardedFor reads the first for= parameter of an RFC 7239 header.
func forwardedFor(header string) string {
	first, _, _ := strings.Cut(header, ",")
	for _, pair := range strings.Split(first, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || !strings.EqualFold(key, "for") {
			continue
		}
		return stripPort(strings.Trim(value, `"`))
	}
	return ""
}

func stripPort(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return strings.Trim(addr, "[]")
}
