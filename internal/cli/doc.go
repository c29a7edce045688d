// Package cli turns command-line flags, environment variables and an
// optional .env file into a validated app.Config. It also defines the
// ExitError the entrypoint maps to a process exit code.
package cli
