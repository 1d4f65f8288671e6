// Package migrations embeds the goose SQL migrations for the captcha tables.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
