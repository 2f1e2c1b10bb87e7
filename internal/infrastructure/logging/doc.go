// Package logging provides structured logging using uber/zap.
//
// Two modes are available:
//   - Production: JSON output for machine parsing
//   - Development: colored console output for human readability
//
// Render failures are logged at Error with the failure tag and the stage
// the engine had reached. Successful renders log at Debug, so production
// output stays quiet until something breaks.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8080"))
//	logger.Render(renderID).Error("SSR render failed", zap.Error(err))
package logging
