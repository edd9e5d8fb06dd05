package sync

// Action is what happens to a single template file.
type Action int

const (
	// Skip means the file is on the ignore list.
	Skip Action = iota

	// Warn means the instance doesn't have a matching file.
	Warn

	// Copy means the instance file is copied over the template file.
	Copy
)

func (action Action) String() string {
	switch action {
	case Skip:
		return "skip"
	case Warn:
		return "warn"
	case Copy:
		return "copy"
	}
	return "unknown"
}

// Decide returns the action for the template file at `relativePath`, whose
// counterpart in the instance is `instanceFile`.
// Any error while checking for the instance file is treated as the file not
// existing.
func Decide(ignore IgnoreList, relativePath, instanceFile string) Action {
	if ignore.Matches(relativePath) {
		return Skip
	}

	if _, err := fs.Stat(instanceFile); err != nil {
		return Warn
	}
	return Copy
}
