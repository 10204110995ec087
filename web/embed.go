package web

import (
	"embed"
	"io/fs"
)

// StaticFiles embeds the stylesheet and the chart bootstrap script.
//
//go:embed static/*
var StaticFiles embed.FS

// Static returns the embedded tree rooted at static/, as served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(StaticFiles, "static")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return sub
}
