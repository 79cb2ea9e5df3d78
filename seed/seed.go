// Package seed bundles the default competency configuration. It is used when
// no COMPETENCY_SEED_DIR is configured.
package seed

import "embed"

//go:embed categories roles progressions.yaml
var FS embed.FS
