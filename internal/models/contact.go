package models

import "time"

// ContactFormSubmission represents a validated contact form payload.
// Submissions are immutable once validated and discarded after the
// email send completes or the request fails.
type ContactFormSubmission struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,contact_email"`
	Message string `json:"message" validate:"required,min=10,max=2000"`
}

// GeoLocation holds the coarse location fields resolved for a sender IP.
// Every field falls back to "Unknown" when the lookup fails.
type GeoLocation struct {
	City        string `json:"city"`
	Region      string `json:"region"`
	Country     string `json:"country"`
	Org         string `json:"org"`
	Timezone    string `json:"timezone"`
	Coordinates string `json:"coordinates"`
}

// UnknownLocation returns the fallback record used when geolocation fails.
func UnknownLocation() GeoLocation {
	return GeoLocation{
		City:        "Unknown",
		Region:      "Unknown",
		Country:     "Unknown",
		Org:         "Unknown",
		Timezone:    "Unknown",
		Coordinates: "Unknown",
	}
}

// ContactMetadata is derived, read-only request context attached to a
// submission for the lifetime of a single email-send operation.
type ContactMetadata struct {
	IP             string
	Location       GeoLocation
	LocalTimestamp string
	UTCTimestamp   string
	UserAgent      string
	Referer        string
	ReceivedAt     time.Time
}
