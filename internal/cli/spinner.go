package cli

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// WithSpinner runs fn behind a progress spinner. In quiet mode the
// spinner is skipped and fn runs directly. The spinner writes to
// stderr so it never pollutes piped output.
func WithSpinner(quiet bool, message string, fn func() error) error {
	if quiet {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	defer s.Stop()

	return fn()
}
