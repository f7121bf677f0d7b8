package httpcg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveDomainToHttpcg_UsesAliasTable(t *testing.T) {
	r := NewDomainRegistry()
	require.Equal(t, "httpcg://google.pravyom.com/search", r.ResolveDomainToHttpcg("google.com", "/search"))
	require.Equal(t, "httpcg://google.pravyom.com/search", r.ResolveDomainToHttpcg("www.google.com", "/search"))
}

func TestResolveDomainToHttpcg_FallsBackToGenericGateway(t *testing.T) {
	r := NewDomainRegistry()
	require.Equal(t, "httpcg://gateway.pravyom.com/external/example.net/path", r.ResolveDomainToHttpcg("example.net", "/path"))
}

func TestResolveDomainToHttpcg_PrefersNonExpiredRegisteredMapping(t *testing.T) {
	r := NewDomainRegistry()
	r.RegisterMapping("custom.com", DomainMapping{HttpcgEndpoint: "custom.pravyom.com", ExpiresAt: time.Now().Add(time.Hour)})
	require.Equal(t, "httpcg://custom.pravyom.com/x", r.ResolveDomainToHttpcg("custom.com", "/x"))
}

func TestResolveDomainToHttpcg_IgnoresExpiredMapping(t *testing.T) {
	r := NewDomainRegistry()
	r.RegisterMapping("google.com", DomainMapping{HttpcgEndpoint: "stale.pravyom.com", ExpiresAt: time.Now().Add(-time.Hour)})
	require.Equal(t, "httpcg://google.pravyom.com/search", r.ResolveDomainToHttpcg("google.com", "/search"))
}

func TestResolveDomainToHttpcg_CachesResolution(t *testing.T) {
	r := NewDomainRegistry()
	first := r.ResolveDomainToHttpcg("example.net", "/path")
	r.RegisterMapping("example.net", DomainMapping{HttpcgEndpoint: "changed.pravyom.com", ExpiresAt: time.Now().Add(time.Hour)})
	second := r.ResolveDomainToHttpcg("example.net", "/path")
	require.Equal(t, first, second, "cached resolution should not pick up a mapping registered after the first lookup")
}
