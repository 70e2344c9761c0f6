// Package entity defines the core business entities for the domain layer.
package entity

// AlertSeverity classifies how urgent a financial alert is.
type AlertSeverity string

const (
	AlertCritical AlertSeverity = "critical"
	AlertWarning  AlertSeverity = "warning"
	AlertSuccess  AlertSeverity = "success"
)

// Alert is a threshold-triggered finding derived from a period comparison.
type Alert struct {
	Severity       AlertSeverity `json:"severity"`
	Message        string        `json:"message"`
	Recommendation string        `json:"recommendation"`
}
