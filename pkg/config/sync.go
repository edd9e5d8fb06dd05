package config

import (
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/sidkik/template-sync/pkg/errors"
)

const (
	// InitialFileVersion is the first version of the template-sync config
	// file. Config files that do not specify a version will default to this
	// version.
	InitialFileVersion = "v1alpha1"

	// SupportedFileVersion is the supported version of the config file of the
	// current binary.
	SupportedFileVersion = "v1alpha1"
)

// DefaultIgnore are the relative path suffixes that are never copied from
// the instance when no config file overrides them.
var DefaultIgnore = []string{".release-please-manifest.json"}

// File is the optional config file.
type File struct {
	Version string `json:"version,omitempty"`

	// Ignore replaces DefaultIgnore when set.
	Ignore []string `json:"ignore,omitempty"`
}

func (f File) getVersion() string {
	return f.Version
}

// homedirExpand will be overridden in mock tests
var homedirExpand = homedir.Expand

// ParseFile parses the config file at `path`.
func ParseFile(path string) (File, error) {
	path, err := homedirExpand(path)
	if err != nil {
		return File{}, errors.WithContext(err, "expand config path")
	}

	config := File{Version: InitialFileVersion}
	if err := parseConfig(path, &config, SupportedFileVersion); err != nil {
		if _, ok := err.(errors.FileNotFound); ok {
			return File{}, errors.NewFriendlyError(
				"The config file doesn't exist at %q.", path)
		}
		return File{}, errors.WithContext(err, "parse")
	}
	return config, nil
}

// LoadIgnore returns the ignore list defined by the config file at `path`.
// If `path` is empty, or the file doesn't set an ignore list, DefaultIgnore
// is returned.
func LoadIgnore(path string) ([]string, error) {
	if path == "" {
		return DefaultIgnore, nil
	}

	file, err := ParseFile(path)
	if err != nil {
		return nil, err
	}

	if file.Ignore == nil {
		return DefaultIgnore, nil
	}
	return file.Ignore, nil
}

// Sync contains the validated inputs for a template update.
type Sync struct {
	// Template is the template argument as passed by the user.
	Template string

	// TemplatePath is the template directory resolved relative to the
	// working directory.
	TemplatePath string

	// Instance is the instance argument as passed by the user.
	Instance string

	// InstancePath is the instance directory. Unlike the template, it isn't
	// resolved against the working directory.
	InstancePath string

	// Ignore are the relative path suffixes that are never overwritten.
	Ignore []string
}

// NewSync validates the template and instance arguments. The template is
// resolved relative to `workingDir`, and the instance is used as is. Both
// must be existing directories.
func NewSync(template, instance, workingDir string, ignore []string) (Sync, error) {
	if template == "" {
		return Sync{}, errors.MissingFieldError{Field: "template"}
	}
	if instance == "" {
		return Sync{}, errors.MissingFieldError{Field: "instance"}
	}

	templatePath, err := homedirExpand(template)
	if err != nil {
		return Sync{}, errors.WithContext(err, "expand template path")
	}
	if !filepath.IsAbs(templatePath) {
		templatePath = filepath.Join(workingDir, templatePath)
	}

	if !isDir(templatePath) {
		return Sync{}, errors.NewFriendlyError(
			"template '%s' does not exist at path '%s'", template, templatePath)
	}

	instancePath, err := homedirExpand(instance)
	if err != nil {
		return Sync{}, errors.WithContext(err, "expand instance path")
	}

	if !isDir(instancePath) {
		return Sync{}, errors.NewFriendlyError(
			"instance repository '%s' does not exist", instance)
	}

	return Sync{
		Template:     template,
		TemplatePath: templatePath,
		Instance:     instance,
		InstancePath: instancePath,
		Ignore:       ignore,
	}, nil
}

func isDir(path string) bool {
	ok, err := afero.IsDir(fs, path)
	return err == nil && ok
}
