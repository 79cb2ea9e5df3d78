package seeder

import "context"

// Seeder is one startup step that brings the store in line with bundled data.
type Seeder interface {
	Name() string
	Run(ctx context.Context) error
}
