// Package migrations carries the numbered schema files applied by
// "rehab-server migrate up".
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
