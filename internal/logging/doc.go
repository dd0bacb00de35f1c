// Package logging builds the gworkspace slog logger and the attributes the
// rest of the module logs with.
//
// The process logger is built once from the --log-level and --log-json flags:
//
//	slog.SetDefault(logging.New(os.Stderr, "info", false))
//
// Command failures carry the command, its service and the failure kind:
//
//	logger.Warn("failed to send email",
//	    logging.Command(name), logging.Service("gmail"), logging.Err(err))
//
// Tokens and addresses never reach the output verbatim. Use SanitizeToken
// and User.
package logging
