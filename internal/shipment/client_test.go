// internal/shipment/client_test.go
//
// Unit-tests for the carrier client against an httptest server.
//
// Run: go test ./internal/shipment -v

package shipment

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_CreateSuccess(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/xml") {
			t.Errorf("content type = %q", ct)
		}
		io.WriteString(w, `<?xml version="1.0"?>
<shipmentResponse>
  <parcelNumber>6A12345678901</parcelNumber>
  <labelUrl>https://labels.example.test/6A12345678901.pdf</labelUrl>
</shipmentResponse>`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, false, Credentials{AccountNumber: "964728"}, time.Second)
	rcpt, err := c.Create(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rcpt.ParcelNumber != "6A12345678901" {
		t.Fatalf("parcel number = %q", rcpt.ParcelNumber)
	}
	if rcpt.LabelURL == "" {
		t.Fatal("label URL missing")
	}
	if !strings.Contains(gotBody, "<productCode>24R</productCode>") {
		t.Fatalf("posted payload wrong:\n%s", gotBody)
	}
}

func TestClient_CreateSOAPWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(b), "<soap:Envelope") {
			t.Errorf("payload not SOAP wrapped:\n%s", b)
		}
		// SOAP flavor answers with a wrapped response; the parser must
		// dig the shipmentResponse element out regardless.
		io.WriteString(w, `<?xml version="1.0"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>
<shipmentResponse><parcelNumber>6A000</parcelNumber></shipmentResponse>
</soap:Body></soap:Envelope>`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, true, Credentials{AccountNumber: "964728"}, time.Second)
	rcpt, err := c.Create(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rcpt.ParcelNumber != "6A000" {
		t.Fatalf("parcel number = %q", rcpt.ParcelNumber)
	}
}

func TestClient_CreateFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `<?xml version="1.0"?>
<shipmentResponse>
  <fault><code>30109</code><message>unknown account number</message></fault>
</shipmentResponse>`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, false, Credentials{AccountNumber: "bogus"}, time.Second)
	_, err := c.Create(context.Background(), sampleRequest())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Code != "30109" {
		t.Fatalf("code = %q", apiErr.Code)
	}
}

func TestClient_CreateHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, false, Credentials{AccountNumber: "964728"}, time.Second)
	if _, err := c.Create(context.Background(), sampleRequest()); err == nil {
		t.Fatal("expected error on 502")
	}
}

func TestClient_CreateRejectsInvalidRequestLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("invalid request reached the network")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, false, Credentials{AccountNumber: "964728"}, time.Second)
	bad := sampleRequest()
	bad.Parcel.WeightGrams = 0
	if _, err := c.Create(context.Background(), bad); err == nil {
		t.Fatal("expected local validation error")
	}
}
