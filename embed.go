package folio

import "embed"

// EmbeddedAssets contains the assets the default views rely on:
// folio.css, favicon.svg and the placeholder profile.svg.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
