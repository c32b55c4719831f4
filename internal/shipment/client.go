// internal/shipment/client.go
//
// Carrier API client.
//
// Context
// -------
// One outbound call: POST the XML payload to the configured endpoint and
// parse the answer.  The carrier exposes the same operation behind a SOAP
// wrapper and a plain POST endpoint; which one we hit is a config choice,
// so the client wraps the payload in an Envelope only when asked to.
//
// Notes
// -----
// • No retry here.  Shipment creation is not idempotent on the carrier
//   side; the caller decides whether to re-submit.
// • Oxford commas, two spaces after periods.
package shipment

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/parcelpoint/internal/metrics"
)

// Receipt is the carrier's answer to an accepted shipment.
type Receipt struct {
	ParcelNumber string
	LabelURL     string
}

// APIError is a carrier-side refusal (well-formed response, fault body).
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("carrier refused shipment: %s (%s)", e.Message, e.Code)
}

// Client posts shipment requests to one carrier endpoint.
type Client struct {
	endpoint string
	soap     bool
	creds    Credentials
	hc       *http.Client
}

// NewClient builds a client for the given endpoint.  soap selects the
// SOAP-wrapped flavor of the same operation.
func NewClient(endpoint string, soap bool, creds Credentials, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		soap:     soap,
		creds:    creds,
		hc:       &http.Client{Timeout: timeout},
	}
}

/*──────────────────────────── wire model ───────────────────────────────────*/

type xmlResponse struct {
	XMLName      xml.Name `xml:"shipmentResponse"`
	ParcelNumber string   `xml:"parcelNumber"`
	LabelURL     string   `xml:"labelUrl"`
	Fault        *struct {
		Code    string `xml:"code"`
		Message string `xml:"message"`
	} `xml:"fault"`
}

/*──────────────────────────── request dispatch ─────────────────────────────*/

// Create submits the shipment and returns the carrier receipt.
func (c *Client) Create(ctx context.Context, r *Request) (*Receipt, error) {
	payload, err := Payload(r, c.creds)
	if err != nil {
		return nil, err
	}
	if c.soap {
		payload = wrapSOAP(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint,
		bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.ShipmentErrorTotal.Inc()
		return nil, fmt.Errorf("post shipment: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.ShipmentErrorTotal.Inc()
		return nil, fmt.Errorf("read shipment response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ShipmentErrorTotal.Inc()
		return nil, fmt.Errorf("carrier endpoint returned status %d", resp.StatusCode)
	}

	return parseResponse(body, r.OrderRef)
}

// parseResponse digs the shipmentResponse element out of body, which may
// or may not be SOAP wrapped; the decoder skips foreign elements either
// way.
func parseResponse(body []byte, orderRef string) (*Receipt, error) {
	var out xmlResponse
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			metrics.ShipmentErrorTotal.Inc()
			return nil, fmt.Errorf("no shipmentResponse element in carrier answer")
		}
		if err != nil {
			metrics.ShipmentErrorTotal.Inc()
			return nil, fmt.Errorf("parse shipment response: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "shipmentResponse" {
			continue
		}
		if err := dec.DecodeElement(&out, &start); err != nil {
			metrics.ShipmentErrorTotal.Inc()
			return nil, fmt.Errorf("parse shipment response: %w", err)
		}
		break
	}

	if out.Fault != nil {
		metrics.ShipmentErrorTotal.Inc()
		zap.S().Warnw("shipment refused",
			"order", orderRef, "code", out.Fault.Code, "msg", out.Fault.Message)
		return nil, &APIError{Code: out.Fault.Code, Message: out.Fault.Message}
	}
	if out.ParcelNumber == "" {
		metrics.ShipmentErrorTotal.Inc()
		return nil, fmt.Errorf("carrier answer carries no parcel number")
	}

	metrics.ShipmentCreateTotal.Inc()
	zap.S().Infow("shipment created",
		"order", orderRef, "parcel", out.ParcelNumber)
	return &Receipt{ParcelNumber: out.ParcelNumber, LabelURL: out.LabelURL}, nil
}

// wrapSOAP nests the payload inside a minimal SOAP 1.1 envelope.  Written
// by hand because encoding/xml cannot emit namespace prefixes cleanly.
// The payload's own XML declaration is stripped first.
func wrapSOAP(payload []byte) []byte {
	inner := bytes.TrimPrefix(payload, []byte(xml.Header))
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body>`)
	buf.Write(inner)
	buf.WriteString(`</soap:Body></soap:Envelope>`)
	return buf.Bytes()
}
