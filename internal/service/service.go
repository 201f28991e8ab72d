// Copyright The Infrastructure Council Portal contributors.
// SPDX-License-Identifier: MIT

// Package service implements the portal's business operations on top of the
// domain repositories: member registration and approval, agenda proposals
// and their evaluation, meeting scheduling and RSVP, and meeting minutes.
package service

// Service is the minimal readiness contract every portal service satisfies.
type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration shared by the portal services.
type ServiceConfig struct {
	// AssetBaseURL is the public prefix under which stored result images
	// are served.
	AssetBaseURL string
}
