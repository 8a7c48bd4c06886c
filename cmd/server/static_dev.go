//go:build !embed
// +build !embed

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// setupStaticFiles serves frontend assets from disk for development (no embedding)
func setupStaticFiles(base *gin.RouterGroup, log zerolog.Logger) {
	log.Info().Msg("🔧 Using local filesystem for frontend assets (development mode)")
	log.Info().Msg("   Run from the repository root or build with -tags embed")

	base.Static("/static", "./cmd/server/web/static")
}
