// Package metrics holds Prometheus instruments used across parcelpoint.
// All collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveMounts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_mounts",
			Help: "Number of selector sessions currently mounted.",
		})

	ResourceLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resource_load_total",
			Help: "Cumulative number of picker scripts loaded successfully.",
		})

	ResourceLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resource_load_errors_total",
			Help: "Cumulative number of picker script load failures.",
		})

	WidgetAttachTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "widget_attach_total",
			Help: "Cumulative number of successful picker attachments.",
		})

	WidgetDetachTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "widget_detach_total",
			Help: "Cumulative number of picker detachments, including supersedes.",
		})

	MountErrorTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mount_error_total",
			Help: "Cumulative number of sessions that ended in the error phase.",
		})

	ShipmentCreateTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shipment_create_total",
			Help: "Cumulative number of shipment requests accepted by the carrier.",
		})

	ShipmentErrorTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shipment_error_total",
			Help: "Cumulative number of shipment requests refused or failed.",
		})
)

func init() {
	prometheus.MustRegister(
		ActiveMounts,
		ResourceLoadTotal,
		ResourceLoadErrorsTotal,
		WidgetAttachTotal,
		WidgetDetachTotal,
		MountErrorTotal,
		ShipmentCreateTotal,
		ShipmentErrorTotal,
	)
}
