// Package files implements the pack file server feature.
//
// It serves the output directory (the mod pack, shader pack and mod loader
// installer) to clients running update-mods and update-shaders.
//
// # Components
//
//   - Service: lists, opens and hashes served files; stores client hash reports.
//   - Handler: exposes the HTTP endpoints.
//   - Feature: registers the routes with the loader.
//
// # HTTP Endpoints
//
//   - GET  /files              : list served files with size and SHA-256.
//   - GET  /files/:name        : download one file (Content-Length always set).
//   - POST /files/mod-hashes   : submit a client hash table; answers with the
//     plan that client would apply. Protected by the API key when configured.
package files
