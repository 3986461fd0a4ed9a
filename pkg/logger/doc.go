// Package logger builds *slog.Logger instances through functional options and
// provides attribute helpers that keep key names consistent across the
// catalog, novation and contract components.
//
// New creates a text or JSON handler, applies static attributes and wraps it
// in a ContextHandler that runs every registered ContextExtractor on each
// record, so request-scoped values such as the caller role show up without
// being passed around explicitly.
//
// # Usage
//
//	log := logger.New(
//		logger.WithConfig(cfg.Log),
//		logger.WithContextValue("role", roleKey),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "pricing archived",
//		logger.Service("Zoom"),
//		logger.Version("2.0"),
//		logger.Count("novated", 12),
//		logger.Duration(time.Since(start)),
//	)
//
// # Configuration
//
// Config is read from the environment (APP_NAME, APP_ENV, LOG_LEVEL,
// LOG_FORMAT). WithDevelopment selects debug text output and WithProduction
// info-level JSON; LOG_LEVEL and LOG_FORMAT override either preset.
//
// Error and Errors return an empty Attr for nil errors, so
//
//	log.Info("done", logger.Error(err))
//
// needs no nil check.
package logger
