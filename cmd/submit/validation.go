package submit

import (
	"fmt"
	"net/url"
	"os"
)

// validateSubmitArgs validates the arguments provided to the submit command.
func validateSubmitArgs(o *RunOptionsSubmit) error {
	if o.ServerURL == "" {
		return fmt.Errorf("the 'server' flag must be specified")
	}
	parsed, err := url.Parse(o.ServerURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("the 'server' flag must be a full URL, got: %v", o.ServerURL)
	}

	if o.File == "" {
		return fmt.Errorf("the 'file' flag must be specified")
	}
	if _, err := os.Stat(o.File); os.IsNotExist(err) {
		return fmt.Errorf("the target file does not exist: %v", o.File)
	}

	return nil
}
