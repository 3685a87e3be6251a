package server

import (
	"embed"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

//go:embed templates/notes.md
var defaultNotes []byte
