// internal/config/model.go
//
// Typed configuration model for parcelpoint.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                          – dotenv values,
//   • `conf/global.yaml`                       – primary static file,
//   • `PP_`-prefixed environment overrides     – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client after unmarshalling (see Resolve in loader.go),
// so running code only ever sees plain strings.  In practice that is the
// carrier contract password.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

//
// HTTP section
//

// HTTP holds web-server tunables for the demo host.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Picker section
//

// Picker configures the parcel-shop selector bootstrap: which scripts to
// load, in which order, and the global entry point they register.
type Picker struct {
	// ScriptURLs are loaded strictly in declared order; the second script
	// depends on a symbol the first one provides.
	ScriptURLs []string `koanf:"script_urls" validate:"required,min=1,dive,url"`
	// EntryPoint is the global callable the last script registers.
	EntryPoint string `koanf:"entry_point" validate:"required"`
	// StylesheetURL is linked from the demo page when set.
	StylesheetURL string `koanf:"stylesheet_url" validate:"omitempty,url"`

	// Mount defaults applied when a request omits them.
	DefaultBrand     string `koanf:"default_brand"`
	DefaultMode      string `koanf:"default_mode"`
	AllowedCountries string `koanf:"allowed_countries"`
	ResultCount      int    `koanf:"result_count"`
}

//
// Carrier section
//

// Carrier holds the shipment-creation endpoint and contract credentials.
// Password is typically `vault:secret/parcelpoint#carrier_password`.
type Carrier struct {
	EndpointURL    string `koanf:"endpoint_url" validate:"required,url"`
	UseSOAP        bool   `koanf:"use_soap"`
	AccountNumber  string `koanf:"account_number" validate:"required"`
	Password       string `koanf:"password"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

//
// Database section
//

// Database holds the DSN for the shipment archive.  Empty means "run
// without persistence"; the demo host then skips the store entirely.
type Database struct {
	DSN string `koanf:"dsn"`
}

//
// Geo section
//

// Geo points at the GeoLite2 database used to default the picker country
// from the client IP.  Empty disables the lookup.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or PP_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // PP_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Picker   Picker   `koanf:"picker"`
	Carrier  Carrier  `koanf:"carrier"`
	Database Database `koanf:"database"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
