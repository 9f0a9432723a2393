package pkg

import "embed"

const AppVersion = "1.0.0"

//go:embed views
var FS embed.FS
