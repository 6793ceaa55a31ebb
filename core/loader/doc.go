// Package loader provides the feature loading system of the file server.
//
// Each feature implements the Feature interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager registers features and loads the enabled ones with LoadAll.
package loader
