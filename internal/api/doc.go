// Package api implements the HTTP handlers for the application's REST
// endpoints. Handlers translate between the JSON wire format and the
// domain and service layers, mapping internal errors to sanitized HTTP
// responses so internal details never leak to clients.
package api
