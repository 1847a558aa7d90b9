// Package scripts embeds the Risor scripts shipped with arbor. They run
// with `arbor script <file> --builtin <name>`.
package scripts

import "embed"

//go:embed *.risor
var FS embed.FS
