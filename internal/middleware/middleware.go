// Package middleware contains the HTTP middleware stack and the global
// error handler.
//
// Middleware here is constructed once with access to the application
// container and registered during router assembly.
package middleware
