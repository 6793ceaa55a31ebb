// Package middleware contains HTTP middleware for the pack file server.
//
// # Components
//
//   - rayid: assigns every request a ray id, stored in the context locals and
//     echoed in the X-Ray-ID response header for tracing.
//   - auth: API key validation for the upload routes.
package middleware
