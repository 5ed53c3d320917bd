package main

import (
	"context"
	"errors"
	"fmt"

	"dagger/chatrelay/internal/dagger"
)

// tidyScript snapshots the module files, tidies, and diffs the result.
const tidyScript = `cp go.mod /tmp/go.mod.orig && cp go.sum /tmp/go.sum.orig &&
go mod tidy &&
diff -u /tmp/go.mod.orig go.mod && diff -u /tmp/go.sum.orig go.sum`

// CheckGoModTidy fails when "go mod tidy" would change go.mod or go.sum.
//
// +check
func (c *Chatrelay) CheckGoModTidy(ctx context.Context) (string, error) {
	_, err := c.goContainer().
		WithExec([]string{"sh", "-c", tidyScript}).
		Stdout(ctx)

	var execErr *dagger.ExecError
	switch {
	case errors.As(err, &execErr):
		return "", fmt.Errorf("module is not tidy, run \"go mod tidy\":\n\n%s", execErr.Stdout)
	case err != nil:
		return "", fmt.Errorf("running go mod tidy: %w", err)
	}

	return "go.mod and go.sum are tidy", nil
}
