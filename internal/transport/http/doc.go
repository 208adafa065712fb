// Package http implements HTTP request handlers for the EstatePulse
// web service. It provides a thin layer between HTTP transport and
// business logic: handlers parse requests, delegate to services, and
// transform service errors into RFC 7807 responses.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                             ↓
//	HTTP Response ← Handler ← Service Response ←─┘
package http
