// Package middleware holds the HTTP middleware shared by all routes: request
// tracing, bearer token authentication and panic recovery. Failures are
// handed to an ErrorResponder so they share the API's error envelope.
package middleware
