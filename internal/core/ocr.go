package core

import "context"

// ProgressFunc receives recognition progress as a fraction in [0.0, 1.0].
// Callbacks for a single run arrive in order; the lifecycle controller maps
// the fraction to an integer percentage and clamps it to 0-100.
type ProgressFunc func(fraction float64)

// Engine is the text extraction collaborator. Given an addressable image and
// a language hint it produces the recognized text, reporting progress zero or
// more times along the way, or fails with an opaque error.
type Engine interface {
	Recognize(ctx context.Context, imagePath, languages string, onProgress ProgressFunc) (string, error)
}
