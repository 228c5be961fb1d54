// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates flags, environment variables and an optional config file into
// the application's configuration and renders build progress to the console.
package cli
