package sync

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/sidkik/template-sync/pkg/config"
	"github.com/sidkik/template-sync/pkg/errors"
	"github.com/sidkik/template-sync/pkg/walk"
)

// Report lists the relative paths of the template files by the action that
// was taken for them.
type Report struct {
	Skipped []string
	Missing []string
	Copied  []string
}

// Synchronizer updates a template from an instance.
type Synchronizer struct {
	out   io.Writer
	log   *logrus.Logger
	clock clockwork.Clock
}

// New returns a Synchronizer that writes progress messages to `out`.
func New(out io.Writer, log *logrus.Logger, clock clockwork.Clock) Synchronizer {
	return Synchronizer{out: out, log: log, clock: clock}
}

// Run copies every instance file over the template file with the same
// relative path. `cfg` must already be validated by config.NewSync.
// The first failure aborts the run. The returned Report describes the files
// that were processed before the failure.
func (s Synchronizer) Run(cfg config.Sync) (Report, error) {
	start := s.clock.Now()

	templateFiles, err := walk.Files(fs, cfg.TemplatePath)
	if err != nil {
		return Report{}, errors.NewFriendlyError(
			"failed to read template directory contents: %s", err)
	}

	s.printf("Found %d files in template '%s'\n", len(templateFiles), cfg.Template)

	ignore := IgnoreList(cfg.Ignore)
	var report Report
	for _, templateFile := range templateFiles {
		relativePath, err := relativeTo(cfg.TemplatePath, templateFile)
		if err != nil {
			return report, err
		}

		instanceFile := filepath.Join(cfg.InstancePath, relativePath)
		action := Decide(ignore, relativePath, instanceFile)
		s.log.WithFields(logrus.Fields{
			"path":   relativePath,
			"action": action,
		}).Debug("Processing template file")

		switch action {
		case Skip:
			s.printf("Skipping ignored file '%s'\n", relativePath)
			report.Skipped = append(report.Skipped, relativePath)
		case Warn:
			s.printf("Warning: instance file '%s' does not exist\n", instanceFile)
			report.Missing = append(report.Missing, relativePath)
		case Copy:
			s.printf("Copying '%s' -> '%s'\n", instanceFile, templateFile)
			if err := copyFile(instanceFile, templateFile); err != nil {
				return report, errors.NewFriendlyError(
					"failed to copy file to '%s': %s", templateFile, err)
			}
			report.Copied = append(report.Copied, relativePath)
		}
	}

	s.printf("Template update complete!\n")
	s.log.WithFields(logrus.Fields{
		"skipped": len(report.Skipped),
		"missing": len(report.Missing),
		"copied":  len(report.Copied),
		"elapsed": s.clock.Now().Sub(start),
	}).Debug("Finished template update")
	return report, nil
}

func (s Synchronizer) printf(format string, a ...interface{}) {
	fmt.Fprintf(s.out, format, a...)
}

// relativeTo returns `path` relative to `root`. The walk only returns paths
// nested under the root, so a path that escapes it is a bug.
func relativeTo(root, path string) (string, error) {
	relativePath, err := filepath.Rel(root, path)
	if err != nil || relativePath == ".." ||
		strings.HasPrefix(relativePath, ".."+string(filepath.Separator)) {
		return "", errors.New("failed to get relative path of %q within %q", path, root)
	}
	return relativePath, nil
}
