// Package logging wraps log/slog with the handful of helpers the binaries
// share: level parsing, JSON or text output, and request-id aware loggers.
//
//	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
//	slog.SetDefault(logger)
//
//	func handle(ctx context.Context) {
//	    logging.WithRequestID(ctx, slog.Default()).Info("processing request")
//	}
package logging
