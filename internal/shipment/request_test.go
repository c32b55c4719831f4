// internal/shipment/request_test.go
//
// Unit-tests for the XML payload builder.
//
// Run: go test ./internal/shipment -v

package shipment

import (
	"encoding/xml"
	"strings"
	"testing"
)

func sampleRequest() *Request {
	return &Request{
		BrandID:  "BDTEST  ",
		Service:  "24R",
		OrderRef: "ORD-1042",
		Sender: Address{
			Name: "Warehouse Nord", Line1: "4 rue des Docks",
			Zip: "59000", City: "Lille", Country: "fr",
		},
		Recipient: Address{
			Name: "Jeanne Martin", Line1: "12 avenue de la Gare",
			Zip: "75012", City: "Paris", Country: "FR", Email: "jm@example.test",
		},
		Parcel: Parcel{WeightGrams: 1250, PickupPointID: "08032"},
	}
}

func TestPayload_MapsFields(t *testing.T) {
	creds := Credentials{AccountNumber: "964728", Password: "s3cret"}
	body, err := Payload(sampleRequest(), creds)
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}

	s := string(body)
	if !strings.HasPrefix(s, xml.Header) {
		t.Fatal("payload misses the XML declaration")
	}
	for _, want := range []string{
		"<accountNumber>964728</accountNumber>",
		"<productCode>24R</productCode>",
		"<orderNumber>ORD-1042</orderNumber>",
		"<weight>1.250</weight>",
		"<pickupLocationId>08032</pickupLocationId>",
		"<zipCode>75012</zipCode>",
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("payload misses %q:\n%s", want, s)
		}
	}
	// Country codes go out upper-cased regardless of caller input.
	if !strings.Contains(s, "<countryCode>FR</countryCode>") {
		t.Fatalf("country not upper-cased:\n%s", s)
	}
	// The wire document must round-trip as well-formed XML.
	var check xmlShipment
	if err := xml.Unmarshal(body, &check); err != nil {
		t.Fatalf("payload is not well-formed: %v", err)
	}
	if check.Recipient.Name != "Jeanne Martin" {
		t.Fatalf("recipient lost in round trip: %+v", check.Recipient)
	}
}

func TestRequest_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"short brand", func(r *Request) { r.BrandID = "BDTEST" }},
		{"missing service", func(r *Request) { r.Service = "" }},
		{"missing zip", func(r *Request) { r.Recipient.Zip = "" }},
		{"zero weight", func(r *Request) { r.Parcel.WeightGrams = 0 }},
		{"relay without point", func(r *Request) { r.Parcel.PickupPointID = "" }},
	}
	for _, tc := range cases {
		r := sampleRequest()
		tc.mutate(r)
		if err := r.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}

	// Home delivery needs no pickup point.
	r := sampleRequest()
	r.Service = "DOM"
	r.Parcel.PickupPointID = ""
	if err := r.Validate(); err != nil {
		t.Fatalf("home delivery rejected: %v", err)
	}
}
