// internal/shipment/request.go
//
// Shipment-creation request model and XML payload builder.
//
// Context
// -------
// Once a pickup point is selected, the host creates a shipment against the
// carrier API.  The API accepts an XML document; this file maps the typed
// Request field by field onto that document.  The transform is pure and
// stateless: no I/O, no shared state, trivially testable.
//
// Notes
// -----
// • Weight crosses the wire in kilograms with three decimals; callers work
//   in grams.
// • The brand identifier must already be normalized (exactly eight
//   characters); the selector package owns that rule.
// • Oxford commas, two spaces after periods.
package shipment

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Address identifies one party of the shipment.
type Address struct {
	Name    string
	Company string
	Line1   string
	Line2   string
	Zip     string
	City    string
	Country string // ISO-3166 alpha-2
	Email   string
	Phone   string
}

// Parcel describes the physical package.
type Parcel struct {
	WeightGrams   int
	PickupPointID string // set when the service delivers to a shop or locker
}

// Request is the caller-facing shipment order.
type Request struct {
	BrandID   string // normalized 8-character identifier
	Service   string // delivery-mode code, e.g. "24R"
	OrderRef  string // caller's order reference, echoed back by the carrier
	Sender    Address
	Recipient Address
	Parcel    Parcel
}

// Validate rejects requests the carrier is guaranteed to refuse, before
// any network round trip.
func (r *Request) Validate() error {
	switch {
	case len(r.BrandID) != 8:
		return fmt.Errorf("brand identifier must be 8 characters, got %d", len(r.BrandID))
	case r.Service == "":
		return fmt.Errorf("service code is required")
	case r.Recipient.Country == "" || r.Recipient.Zip == "":
		return fmt.Errorf("recipient country and zip are required")
	case r.Parcel.WeightGrams <= 0:
		return fmt.Errorf("parcel weight must be positive")
	}
	if needsPickupPoint(r.Service) && r.Parcel.PickupPointID == "" {
		return fmt.Errorf("service %s requires a pickup point", r.Service)
	}
	return nil
}

// needsPickupPoint reports whether the service delivers to a relay, shop,
// or locker rather than a street address.
func needsPickupPoint(service string) bool {
	switch service {
	case "BPR", "A2P", "24R":
		return true
	}
	return false
}

/*──────────────────────────── wire model ───────────────────────────────────*/

type xmlParty struct {
	Name    string `xml:"name"`
	Company string `xml:"company,omitempty"`
	Line1   string `xml:"line1"`
	Line2   string `xml:"line2,omitempty"`
	Zip     string `xml:"zipCode"`
	City    string `xml:"city"`
	Country string `xml:"countryCode"`
	Email   string `xml:"email,omitempty"`
	Phone   string `xml:"phone,omitempty"`
}

type xmlShipment struct {
	XMLName     xml.Name `xml:"shipment"`
	Contract    string   `xml:"accountNumber"`
	Password    string   `xml:"password,omitempty"`
	Service     string   `xml:"productCode"`
	OrderRef    string   `xml:"orderNumber,omitempty"`
	WeightKg    string   `xml:"weight"`
	PickupPoint string   `xml:"pickupLocationId,omitempty"`
	Sender      xmlParty `xml:"sender"`
	Recipient   xmlParty `xml:"addressee"`
}

// Credentials carry the carrier contract pair, resolved from Vault at
// boot.
type Credentials struct {
	AccountNumber string
	Password      string
}

// Payload renders the request as the carrier's XML document, prefixed with
// the standard declaration.
func Payload(r *Request, creds Credentials) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	doc := xmlShipment{
		Contract:    strings.TrimSpace(creds.AccountNumber),
		Password:    creds.Password,
		Service:     r.Service,
		OrderRef:    r.OrderRef,
		WeightKg:    fmt.Sprintf("%.3f", float64(r.Parcel.WeightGrams)/1000),
		PickupPoint: r.Parcel.PickupPointID,
		Sender:      toParty(r.Sender),
		Recipient:   toParty(r.Recipient),
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal shipment: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func toParty(a Address) xmlParty {
	return xmlParty{
		Name:    a.Name,
		Company: a.Company,
		Line1:   a.Line1,
		Line2:   a.Line2,
		Zip:     a.Zip,
		City:    a.City,
		Country: strings.ToUpper(a.Country),
		Email:   a.Email,
		Phone:   a.Phone,
	}
}
