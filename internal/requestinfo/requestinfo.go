// internal/requestinfo/requestinfo.go
//
// Per-request metadata: user-agent fingerprint and IP geolocation.
//
// Context
// -------
// The demo host uses this twice.  Bot traffic gets no picker bootstrap
// (an inert mount), and the client's country, when GeoLite2 knows it,
// pre-fills the picker's search country.  The structs are inert; they
// contain no handles or large buffers, so they are safe to log or
// JSON-encode.
//
// Notes
// -----
// • InitGeo is optional.  Without it, lookups return an empty Geo and the
//   picker falls back to the configured default country.
// • Oxford commas, two spaces after periods.
package requestinfo

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/yanizio/parcelpoint/internal/ua"
)

// Geo holds IP-based geolocation hints.  Best-effort; fields may be empty
// when the database has no match.
type Geo struct {
	IP         net.IP
	CountryISO string // "FR", "BE", ...
	City       string
}

// RequestInfo is stored in the request context by the Enrich middleware.
type RequestInfo struct {
	UA        ua.Info
	Geo       Geo
	URL       *url.URL // pointer copy, safe to dereference read-only
	Timestamp time.Time
}

// geoReader is a singleton MaxMind handle.  Safe for concurrent reads,
// which is all we ever perform.
var geoReader *geoip2.Reader

// InitGeo opens the GeoLite2 database.  Call it once from main(); an
// error leaves geolocation disabled rather than killing the boot.
func InitGeo(dbPath string) error {
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoReader = r
	return nil
}

// lookupGeo resolves ip against the GeoLite2 database, if one is open.
func lookupGeo(ip net.IP) Geo {
	g := Geo{IP: ip}
	if geoReader == nil || ip == nil {
		return g
	}
	rec, err := geoReader.City(ip)
	if err != nil {
		return g
	}
	g.CountryISO = rec.Country.IsoCode
	if name, ok := rec.City.Names["en"]; ok {
		g.City = name
	}
	return g
}

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich, or nil if
// the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}
