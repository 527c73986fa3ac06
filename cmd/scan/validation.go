package scan

import (
	"fmt"
	"os"
)

// validateScanArgs validates the arguments provided to the scan command.
func validateScanArgs(o *RunOptionsScan) error {
	inputs := 0
	for _, input := range []string{o.Path, o.File, o.Repo} {
		if input != "" {
			inputs++
		}
	}
	if inputs == 0 {
		return fmt.Errorf("one of the 'path', 'file' or 'repo' flags must be specified")
	}
	if inputs > 1 {
		return fmt.Errorf("the 'path', 'file' and 'repo' flags are mutually exclusive")
	}

	if o.Path != "" {
		if _, err := os.Stat(o.Path); os.IsNotExist(err) {
			return fmt.Errorf("the target path does not exist: %v", o.Path)
		}
	}
	if o.File != "" {
		if _, err := os.Stat(o.File); os.IsNotExist(err) {
			return fmt.Errorf("the target file does not exist: %v", o.File)
		}
	}

	if o.Repo == "" {
		if o.Branch != "" {
			return fmt.Errorf("the 'branch' flag only applies to repository scans")
		}
		if o.SSHKey != "" || o.Username != "" || o.Token != "" {
			return fmt.Errorf("authentication flags only apply to repository scans")
		}
	}
	if o.SSHKey != "" && (o.Username != "" || o.Token != "") {
		return fmt.Errorf("the 'ssh-key' flag cannot be combined with HTTP credentials")
	}

	return nil
}
