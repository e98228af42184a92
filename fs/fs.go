// Package appfs holds the files embedded in the binaries.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
