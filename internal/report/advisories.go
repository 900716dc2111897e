package report

import (
	"net"
	"net/url"
	"strings"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
)

// Advisory flags a chain property worth a second look. Advisories are
// informational; they never change how a chain is traced or counted.
type Advisory struct {
	Type   string `json:"type"`
	AtHop  int    `json:"at_hop"`
	Detail string `json:"detail"`
}

const (
	AdvisoryDowngrade    = "HTTPS_DOWNGRADE"
	AdvisoryCrossDomain  = "CROSS_DOMAIN"
	AdvisoryInternalHost = "INTERNAL_HOST"
)

var privateCIDRs []*net.IPNet

func init() {
	cidrs := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"127.0.0.0/8",
		"169.254.0.0/16",
		"::1/128",
		"fc00::/7",
	}
	for _, c := range cidrs {
		_, n, _ := net.ParseCIDR(c)
		privateCIDRs = append(privateCIDRs, n)
	}
}

// Advisories inspects a finished chain for downgrades, cross-domain
// hand-offs, and hops into internal address space.
func Advisories(res model.Result) []Advisory {
	var out []Advisory
	var prev *url.URL
	for i, hop := range res.Chain {
		u, err := url.Parse(hop.URL)
		if err != nil {
			continue
		}
		if isInternalHost(u.Hostname()) {
			out = append(out, Advisory{Type: AdvisoryInternalHost, AtHop: i, Detail: u.Host})
		}
		if prev != nil && prev.Scheme == "https" && u.Scheme == "http" {
			out = append(out, Advisory{Type: AdvisoryDowngrade, AtHop: i, Detail: prev.String() + " -> " + u.String()})
		}
		prev = u
	}

	final := res.Chain.Final()
	if final.Status.IsHTTP() && !sameBaseDomain(res.URL, final.URL) {
		out = append(out, Advisory{
			Type:   AdvisoryCrossDomain,
			AtHop:  len(res.Chain) - 1,
			Detail: baseDomain(res.URL) + " -> " + baseDomain(final.URL),
		})
	}
	return out
}

// baseDomain returns a naive eTLD+1 for the URL host.
func baseDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host
	}
	return strings.Join(parts[len(parts)-2:], ".")
}

func sameBaseDomain(a, b string) bool {
	da, db := baseDomain(a), baseDomain(b)
	return da != "" && da == db
}

// isInternalHost returns true if the host is internal or loopback.
func isInternalHost(host string) bool {
	host = strings.ToLower(host)
	if host == "localhost" || strings.HasSuffix(host, ".internal") {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		for _, n := range privateCIDRs {
			if n.Contains(ip) {
				return true
			}
		}
	}
	return false
}
