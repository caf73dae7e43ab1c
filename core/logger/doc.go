// Package logger builds the zap logger shared by commands, services and handlers.
//
// Level debug selects zap's development preset; any other level the production preset.
// Format console gives colored human-readable lines, json gives one object per line.
//
// Request handlers log through WithRayID, which tags entries with the X-Ray-ID assigned
// by the rayid middleware so every line of one request can be correlated:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Sync failed", zap.Error(err))
package logger
