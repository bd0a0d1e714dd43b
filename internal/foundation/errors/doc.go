// Package errors provides the classified error primitives used across skypages.
//
// Every failure that crosses a package boundary is expressed as a
// ClassifiedError so the CLI can pick an exit code and the build reporter
// can pick a log level without string matching.
//
//   - ErrorCategory: broad classification (config, filesystem, bundler, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: marks errors the user must fix before rerunning
//   - ErrorBuilder: fluent construction with context and cause
//   - CLIErrorAdapter: exit codes and user-facing formatting
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "copy package sources").
//		WithContext("src", src).
//		WithContext("dst", dst).
//		Build()
package errors
