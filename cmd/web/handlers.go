// cmd/web/handlers.go
//
// Demo host HTTP surface.
//
// Routes
// ------
//
//	GET    /                    – demo page embedding one selector mount
//	POST   /api/mounts          – create a mount and start its bootstrap
//	GET    /api/mounts/{id}     – observable lifecycle surface (phase, error)
//	DELETE /api/mounts/{id}     – unmount and forget the session
//	POST   /api/shipments       – build + dispatch a shipment request
//	GET    /api/shipments       – recent entries from the archive
//	GET    /metrics             – Prometheus scrape endpoint
//
// The mount API exists so the lifecycle can be exercised and observed
// end to end: racing mounts, remounts, and unmounts map one-to-one onto
// the coordinator's semantics.  Bot traffic gets an inert mount: the
// session is created without a document capability, so nothing loads and
// nothing renders.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/parcelpoint/internal/config"
	"github.com/yanizio/parcelpoint/internal/head"
	"github.com/yanizio/parcelpoint/internal/host"
	"github.com/yanizio/parcelpoint/internal/middleware"
	"github.com/yanizio/parcelpoint/internal/requestinfo"
	"github.com/yanizio/parcelpoint/internal/selector"
	"github.com/yanizio/parcelpoint/internal/shipment"
)

type app struct {
	cfg    *config.Config
	doc    *host.MemDoc
	loader *selector.Loader
	guard  *selector.Guard
	mounts *selector.Registry
	client *shipment.Client
	store  *shipment.Store // nil without a DSN

	seq atomic.Int64
}

func carrierTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Carrier.TimeoutSeconds) * time.Second
}

// resources maps the configured script URLs onto ordered loader resources.
func (a *app) resources() []selector.Resource {
	out := make([]selector.Resource, 0, len(a.cfg.Picker.ScriptURLs))
	for i, u := range a.cfg.Picker.ScriptURLs {
		out = append(out, selector.Resource{
			Name: fmt.Sprintf("picker script %d", i+1),
			URL:  u,
		})
	}
	return out
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Security(append(
		append([]string{}, a.cfg.Picker.ScriptURLs...),
		a.cfg.Picker.StylesheetURL)...))
	r.Use(requestinfo.Enrich)

	r.Get("/", a.getDemo)
	r.Route("/api", func(api chi.Router) {
		api.Post("/mounts", a.postMount)
		api.Get("/mounts/{id}", a.getMount)
		api.Delete("/mounts/{id}", a.deleteMount)
		api.Post("/shipments", a.postShipment)
		api.Get("/shipments", a.getShipments)
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

/*──────────────────────────── mount lifecycle ──────────────────────────────*/

type mountRequest struct {
	BrandID      string  `json:"brand_id"`
	DeliveryMode string  `json:"delivery_mode"`
	Country      string  `json:"country"`
	Postcode     string  `json:"postcode"`
	Weight       float64 `json:"weight"`
}

type mountResponse struct {
	ID     string `json:"id"`
	Phase  string `json:"phase"`
	Ready  bool   `json:"ready"`
	Error  string `json:"error,omitempty"`
	Target string `json:"target,omitempty"`
}

func (a *app) postMount(w http.ResponseWriter, r *http.Request) {
	var req mountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	p := a.cfg.Picker
	opts := selector.Options{
		BrandID:          firstOf(req.BrandID, p.DefaultBrand),
		DeliveryMode:     firstOf(req.DeliveryMode, p.DefaultMode),
		Country:          req.Country,
		Postcode:         req.Postcode,
		AllowedCountries: p.AllowedCountries,
		ResultCount:      p.ResultCount,
		Weight:           req.Weight,
		OnSelect: func(loc host.Location, targetValue string) {
			zap.S().Infow("pickup point selected",
				"point", loc.ID, "name", loc.Name, "value", targetValue)
		},
	}

	ri := requestinfo.FromContext(r.Context())
	if opts.Country == "" && ri != nil {
		opts.Country = ri.Geo.CountryISO
	}

	id := fmt.Sprintf("mount-%d", a.seq.Add(1))
	target := id + "-zone"

	// Bots never get a rendering host; their mount stays inert.
	doc := host.Document(a.doc)
	if ri != nil && ri.UA.IsBot {
		doc = nil
		zap.S().Infow("bot request, inert mount", "mount", id)
	} else {
		a.doc.AddElement(target)
	}

	s := selector.NewSession(id, target, opts, a.resources(), doc, a.loader, a.guard)
	a.mounts.Register(s)

	go func() {
		// Errors surface through the session's phase; the API reports
		// them on GET.  Background context: the mount must not die with
		// this request.
		_ = s.Mount(context.Background())
	}()

	writeJSON(w, http.StatusAccepted, mountResponse{
		ID: id, Phase: s.Phase().String(), Ready: s.Ready(), Target: target,
	})
}

func (a *app) getMount(w http.ResponseWriter, r *http.Request) {
	s := a.mounts.Lookup(chi.URLParam(r, "id"))
	if s == nil {
		http.NotFound(w, r)
		return
	}
	resp := mountResponse{ID: s.ID(), Phase: s.Phase().String(), Ready: s.Ready()}
	if err := s.Err(); err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *app) deleteMount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s := a.mounts.Lookup(id)
	if s == nil {
		http.NotFound(w, r)
		return
	}
	s.Unmount()
	a.mounts.Deregister(id)
	w.WriteHeader(http.StatusNoContent)
}

/*──────────────────────────── shipments ────────────────────────────────────*/

type shipmentRequest struct {
	OrderRef      string           `json:"order_ref"`
	Service       string           `json:"service"`
	PickupPointID string           `json:"pickup_point_id"`
	WeightGrams   int              `json:"weight_grams"`
	Sender        shipment.Address `json:"sender"`
	Recipient     shipment.Address `json:"recipient"`
}

func (a *app) postShipment(w http.ResponseWriter, r *http.Request) {
	var req shipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	brand, err := selector.NormalizeBrandID(a.cfg.Picker.DefaultBrand)
	if err != nil {
		http.Error(w, "no brand configured", http.StatusInternalServerError)
		return
	}

	sreq := &shipment.Request{
		BrandID:   brand,
		Service:   firstOf(req.Service, a.cfg.Picker.DefaultMode),
		OrderRef:  req.OrderRef,
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Parcel: shipment.Parcel{
			WeightGrams:   req.WeightGrams,
			PickupPointID: req.PickupPointID,
		},
	}

	rcpt, err := a.client.Create(r.Context(), sreq)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	if a.store != nil {
		if _, err := a.store.Insert(r.Context(), sreq, rcpt); err != nil {
			zap.S().Errorw("archive shipment failed",
				"order", sreq.OrderRef, "err", err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"parcel_number": rcpt.ParcelNumber,
		"label_url":     rcpt.LabelURL,
	})
}

func (a *app) getShipments(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		http.Error(w, "shipment archive not configured", http.StatusServiceUnavailable)
		return
	}
	recs, err := a.store.Recent(r.Context(), 20)
	if err != nil {
		http.Error(w, "archive query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

/*──────────────────────────── demo page ────────────────────────────────────*/

var demoTpl = template.Must(template.New("demo").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  {{.Head.Title}}{{.Head.Metas}}{{.Head.Links}}{{.Head.Scripts}}
</head>
<body>
  <h1>Parcel-shop selector demo</h1>
  <p>POST /api/mounts to bootstrap a picker mount, then poll
     GET /api/mounts/{id} for its phase.</p>
  <div id="demo-zone"></div>
</body>
</html>`))

func (a *app) getDemo(w http.ResponseWriter, r *http.Request) {
	hb := head.New()
	hb.SetTitle("Parcelpoint demo")
	hb.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	hb.PickerAssets(a.cfg.Picker.StylesheetURL)

	if err := demoTpl.Execute(w, map[string]any{"Head": hb}); err != nil {
		zap.S().Errorw("render demo page", "err", err)
	}
}

/*──────────────────────────── helpers ──────────────────────────────────────*/

func firstOf(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("encode response", "err", err)
	}
}
