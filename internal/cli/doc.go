// Package cli holds the shared plumbing of the solarops command line:
// the error taxonomy commands translate into exit codes, the output
// formats (table, wide, json, yaml, template), the kubectl-style table
// writer, the common flag set, and the progress spinner helper.
//
// The package renders and classifies; it never talks to the API itself.
package cli
