// Movie Recommendation Model - Catalog Resolution and Enrichment Service
// Copyright 2026 Harshal Gondaliya
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harshalgondaliya/Movie-Recommendation-Model

// Package models defines the wire types shared by all HTTP endpoints.
package models

import "time"

// APIResponse is the standardized response wrapper for all API
// endpoints.
//
// Example successful response:
//
//	{
//	  "success": true,
//	  "data": {"records": [...]},
//	  "meta": {"request_id": "…", "timestamp": "…", "duration_ms": 12}
//	}
//
// Example error response:
//
//	{
//	  "success": false,
//	  "error": {"code": "NOT_FOUND", "message": "no catalog entry matches the query"},
//	  "meta": {"request_id": "…", "timestamp": "…"}
//	}
type APIResponse struct {
	// Success indicates whether the request was successful
	Success bool `json:"success"`

	// Data contains the response payload (null on error)
	Data interface{} `json:"data,omitempty"`

	// Error contains error details (null on success)
	Error *APIError `json:"error,omitempty"`

	// Meta contains metadata about the response
	Meta *Meta `json:"meta,omitempty"`
}

// APIError represents an error response.
type APIError struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains additional error details (optional)
	Details interface{} `json:"details,omitempty"`
}

// Meta contains response metadata for tracing and performance
// tracking.
type Meta struct {
	// RequestID is the unique request identifier for tracing
	RequestID string `json:"request_id,omitempty"`

	// Timestamp is when the response was generated
	Timestamp time.Time `json:"timestamp"`

	// DurationMs is the request processing time in milliseconds
	DurationMs int64 `json:"duration_ms,omitempty"`
}

// HealthStatus is the payload of the liveness endpoint.
type HealthStatus struct {
	Status       string `json:"status"`
	CatalogSize  int    `json:"catalog_size"`
	CacheEntries int    `json:"cache_entries"`
}
