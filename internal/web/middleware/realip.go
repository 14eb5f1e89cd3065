package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// TrustedRealIP rewrites RemoteAddr from X-Real-IP or X-Forwarded-For,
// but only for requests arriving from a trusted proxy CIDR. Other clients
// keep their connection address, so a forged header cannot dodge the rate
// limiter or change what the access log records.
func TrustedRealIP(trustedCIDRs []string) func(http.Handler) http.Handler {
	trustedNets := parseTrusted(trustedCIDRs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isTrusted(extractIP(r.RemoteAddr), trustedNets) {
				if ip := forwardedIP(r.Header); ip != nil {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// parseTrusted parses CIDRs and bare IPs; invalid entries are logged and
// skipped.
func parseTrusted(trustedCIDRs []string) []*net.IPNet {
	var trustedNets []*net.IPNet
	for _, cidr := range trustedCIDRs {
		cidr = strings.TrimSpace(cidr)
		if cidr == "" {
			continue
		}

		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try parsing as single IP (e.g., "127.0.0.1" instead of "127.0.0.1/32")
			if ip := net.ParseIP(cidr); ip != nil {
				mask := net.CIDRMask(128, 128)
				if ip.To4() != nil {
					mask = net.CIDRMask(32, 32)
				}
				trustedNets = append(trustedNets, &net.IPNet{IP: ip, Mask: mask})
			} else {
				slog.Warn("realip: invalid trusted proxy CIDR, skipping",
					"cidr", cidr,
					"error", err,
				)
			}
			continue
		}
		trustedNets = append(trustedNets, network)
	}
	return trustedNets
}

// forwardedIP returns the client address named by X-Real-IP, or else the
// first entry of X-Forwarded-For. Values that are not IPs are ignored.
func forwardedIP(h http.Header) net.IP {
	if rip := h.Get("X-Real-IP"); rip != "" {
		return net.ParseIP(strings.TrimSpace(rip))
	}
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		candidate, _, _ := strings.Cut(xff, ",")
		return net.ParseIP(strings.TrimSpace(candidate))
	}
	return nil
}

// ClientIP returns the client address of r without a port. Run it after
// TrustedRealIP.
func ClientIP(r *http.Request) string {
	if ip := extractIP(r.RemoteAddr); ip != nil {
		return ip.String()
	}
	return r.RemoteAddr
}

// extractIP parses an IP address from a host:port string or plain IP.
func extractIP(addr string) net.IP {
	// Handle "host:port" format
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}

// isTrusted checks if an IP is within any of the trusted networks.
func isTrusted(ip net.IP, trusted []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, network := range trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
