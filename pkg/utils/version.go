// Package utils holds build metadata and small string helpers.
package utils

// Set with -ldflags "-X github.com/papercomputeco/chatrelay/pkg/utils.Version=..."
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)
