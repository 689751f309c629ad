package dataset

import "fmt"

// ConfigurationError reports a sequence directory that cannot be used:
// the path is missing or not a directory, the ground-truth file is
// absent, or the ground truth does not line up with the frame files.
// It is returned from OpenSequence and is fatal to that sequence; there
// is nothing to retry.
type ConfigurationError struct {
	Dir    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("dataset: invalid sequence folder %s: %s", e.Dir, e.Reason)
}
