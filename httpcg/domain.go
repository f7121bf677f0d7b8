// Package httpcg implements C11: cross-domain httpcg resolution, the
// jurisdiction gate, and excess-resource-billing (ERB) sessions for
// wallet-bound external requests. Grounded on spec §4.11 and
// original_source/wallet-identity/src/client/transport/cross_domain_httpcg.rs.
package httpcg

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// domainCacheTTL is the domain-resolution cache lifetime (spec §4.11 step 4).
const domainCacheTTL = 10 * time.Minute

// aliasTable is the fixed well-known-domain alias mapping (spec §4.11
// step 4); unmatched domains fall through to the generic gateway mapping.
var aliasTable = map[string]string{
	"google.com":     "google.pravyom.com",
	"www.google.com": "google.pravyom.com",
	"amazon.com":      "amazon.pravyom.com",
	"www.amazon.com":  "amazon.pravyom.com",
	"microsoft.com":     "microsoft.pravyom.com",
	"www.microsoft.com": "microsoft.pravyom.com",
	"apple.com":     "apple.pravyom.com",
	"www.apple.com": "apple.pravyom.com",
	"facebook.com":     "facebook.pravyom.com",
	"www.facebook.com": "facebook.pravyom.com",
	"twitter.com":     "twitter.pravyom.com",
	"www.twitter.com": "twitter.pravyom.com",
}

// DomainMapping is a registered, possibly-expiring override for domain
// resolution (spec §4.11 step 4, "domain-mapping registry").
type DomainMapping struct {
	HttpcgEndpoint string
	ExpiresAt      time.Time
}

type cacheEntry struct {
	url      string
	cachedAt time.Time
}

// DomainRegistry resolves an external domain+path to an httpcg:// URL,
// preferring non-expired registered mappings, then the alias table, then a
// generic gateway fallback. Resolutions are cached for domainCacheTTL.
type DomainRegistry struct {
	mu       sync.Mutex
	mappings map[string]DomainMapping
	cache    map[string]cacheEntry
	now      func() time.Time
}

func NewDomainRegistry() *DomainRegistry {
	return &DomainRegistry{
		mappings: map[string]DomainMapping{},
		cache:    map[string]cacheEntry{},
		now:      time.Now,
	}
}

// RegisterMapping installs or replaces an explicit domain override.
func (r *DomainRegistry) RegisterMapping(domain string, m DomainMapping) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappings[domain] = m
}

// ResolveDomainToHttpcg implements resolve_domain_to_httpcg.
func (r *DomainRegistry) ResolveDomainToHttpcg(domain, path string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	cacheKey := domain + ":" + path
	now := r.now()
	if entry, ok := r.cache[cacheKey]; ok && now.Sub(entry.cachedAt) < domainCacheTTL {
		return entry.url
	}

	var endpoint string
	if m, ok := r.mappings[domain]; ok && now.Before(m.ExpiresAt) {
		endpoint = m.HttpcgEndpoint
	} else if alias, ok := aliasTable[strings.ToLower(domain)]; ok {
		endpoint = alias
	} else {
		endpoint = fmt.Sprintf("gateway.pravyom.com/external/%s", domain)
	}

	url := fmt.Sprintf("httpcg://%s%s", endpoint, path)
	r.cache[cacheKey] = cacheEntry{url: url, cachedAt: now}
	return url
}
