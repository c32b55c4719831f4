// internal/ua/ua.go
//
// User-Agent parsing helpers.
//
// This wrapper isolates the third-party `github.com/avct/uasurfer` API so
// the rest of the codebase never sees its enums or structs.  Parcelpoint
// cares about two things: a human-readable browser fingerprint for logs,
// and the bot flag, because bots get no picker bootstrap at all.
package ua

import (
	"fmt"
	"strconv"
	"strings"

	surfer "github.com/avct/uasurfer"
)

// Info carries the UA attributes used by the middleware and the logs.
type Info struct {
	Browser   string
	Version   string
	OS        string
	OSVersion string
	Device    string // "Desktop", "Mobile", "Tablet", or "Other"
	IsBot     bool
	Raw       string
}

// Parse converts a raw header into an Info struct.  The library's enum
// strings carry type prefixes ("BrowserChrome", "OSMacOSX"); we trim them.
func Parse(raw string) Info {
	u := surfer.Parse(raw)

	info := Info{
		Browser:   strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version:   versionToString(u.Browser.Version),
		OS:        strings.TrimPrefix(u.OS.Name.String(), "OS"),
		OSVersion: versionToString(u.OS.Version),
		IsBot:     u.IsBot(),
		Raw:       raw,
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}

	return info
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	if v.Minor != 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(int(v.Major))
}
