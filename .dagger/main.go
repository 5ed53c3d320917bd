// chatrelay CI
//
// Package main provides reproducible builds and tests locally and in CI.
package main

import (
	"context"

	"dagger/chatrelay/internal/dagger"
)

// Chatrelay is the main module for the chatrelay CI pipeline
type Chatrelay struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Chatrelay CI module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".env", ".chatrelay", "build", "tmp"]
	source *dagger.Directory,
) *Chatrelay {
	return &Chatrelay{
		Source: source,
	}
}

// goContainer returns a Go container with the project source mounted and
// the module and build caches attached. The relay is pure Go, so CGO stays
// off.
func (c *Chatrelay) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-alpine").
		WithEnvVariable("CGO_ENABLED", "0").
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", c.Source)
}

// Test runs the chatrelay unit tests via "go test". OPENROUTER_API_KEY is
// left unset so no test can reach the real upstream.
//
// +check
func (c *Chatrelay) Test(ctx context.Context) (string, error) {
	return c.goContainer().
		WithoutEnvVariable("OPENROUTER_API_KEY").
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}
