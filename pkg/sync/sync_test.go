package sync

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/template-sync/pkg/config"
)

type file struct {
	path, contents string
}

func setupFiles(t *testing.T, files []file) {
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, f.path, []byte(f.contents), 0644))
	}
}

func assertFiles(t *testing.T, files []file) {
	for _, f := range files {
		contents, err := afero.ReadFile(fs, f.path)
		if assert.NoError(t, err, f.path) {
			assert.Equal(t, f.contents, string(contents), f.path)
		}
	}
}

func testConfig() config.Sync {
	return config.Sync{
		Template:     "template",
		TemplatePath: "/work/template",
		Instance:     "/instance",
		InstancePath: "/instance",
		Ignore:       config.DefaultIgnore,
	}
}

func newTestSynchronizer(out *bytes.Buffer) (Synchronizer, *logrusTest.Hook) {
	logger, hook := logrusTest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return New(out, logger, clockwork.NewFakeClock()), hook
}

func TestRun(t *testing.T) {
	fs = afero.NewMemMapFs()
	setupFiles(t, []file{
		{"/work/template/a.txt", "old"},
		{"/work/template/sub/b.txt", "old2"},
		{"/work/template/.release-please-manifest.json", "keep"},
		{"/instance/a.txt", "new"},
		{"/instance/.release-please-manifest.json", "ignored-new"},
		{"/instance/only-in-instance.txt", "instance"},
		{"/instance/extra/c.txt", "instance"},
	})

	var out bytes.Buffer
	s, _ := newTestSynchronizer(&out)
	report, err := s.Run(testConfig())
	assert.NoError(t, err)

	assert.Equal(t, Report{
		Skipped: []string{".release-please-manifest.json"},
		Copied:  []string{"a.txt"},
		Missing: []string{"sub/b.txt"},
	}, report)

	assertFiles(t, []file{
		{"/work/template/a.txt", "new"},
		{"/work/template/sub/b.txt", "old2"},
		{"/work/template/.release-please-manifest.json", "keep"},
		{"/instance/a.txt", "new"},
		{"/instance/.release-please-manifest.json", "ignored-new"},
	})

	for _, path := range []string{"/work/template/only-in-instance.txt", "/work/template/extra"} {
		exists, err := afero.Exists(fs, path)
		assert.NoError(t, err)
		assert.False(t, exists, path)
	}

	assert.Equal(t, "Found 3 files in template 'template'\n"+
		"Skipping ignored file '.release-please-manifest.json'\n"+
		"Copying '/instance/a.txt' -> '/work/template/a.txt'\n"+
		"Warning: instance file '/instance/sub/b.txt' does not exist\n"+
		"Template update complete!\n", out.String())
}

func TestRunIdempotent(t *testing.T) {
	fs = afero.NewMemMapFs()
	setupFiles(t, []file{
		{"/work/template/a.txt", "old"},
		{"/work/template/nested/deep/b.txt", "old"},
		{"/work/template/missing.txt", "untouched"},
		{"/instance/a.txt", "new a"},
		{"/instance/nested/deep/b.txt", "new b"},
	})
	exp := []file{
		{"/work/template/a.txt", "new a"},
		{"/work/template/nested/deep/b.txt", "new b"},
		{"/work/template/missing.txt", "untouched"},
	}

	var firstOut, secondOut bytes.Buffer
	first, _ := newTestSynchronizer(&firstOut)
	firstReport, err := first.Run(testConfig())
	assert.NoError(t, err)
	assertFiles(t, exp)

	second, _ := newTestSynchronizer(&secondOut)
	secondReport, err := second.Run(testConfig())
	assert.NoError(t, err)
	assertFiles(t, exp)

	assert.Equal(t, firstReport, secondReport)
	assert.Equal(t, firstOut.String(), secondOut.String())
}

func TestRunCopiesPermissions(t *testing.T) {
	fs = afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/template/run.sh", []byte("old"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/instance/run.sh", []byte("#!/bin/sh"), 0755))

	s, _ := newTestSynchronizer(&bytes.Buffer{})
	_, err := s.Run(testConfig())
	assert.NoError(t, err)

	info, err := fs.Stat("/work/template/run.sh")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	assertFiles(t, []file{{"/work/template/run.sh", "#!/bin/sh"}})
}

func TestRunCustomIgnore(t *testing.T) {
	fs = afero.NewMemMapFs()
	setupFiles(t, []file{
		{"/work/template/.release-please-manifest.json", "old"},
		{"/work/template/CHANGELOG.md", "old"},
		{"/instance/.release-please-manifest.json", "new"},
		{"/instance/CHANGELOG.md", "new"},
	})

	cfg := testConfig()
	cfg.Ignore = []string{"CHANGELOG.md"}

	s, _ := newTestSynchronizer(&bytes.Buffer{})
	report, err := s.Run(cfg)
	assert.NoError(t, err)
	assert.Equal(t, []string{"CHANGELOG.md"}, report.Skipped)
	assertFiles(t, []file{
		{"/work/template/.release-please-manifest.json", "new"},
		{"/work/template/CHANGELOG.md", "old"},
	})
}

type failingOpenFileFs struct {
	afero.Fs
	failPath string
}

func (fs failingOpenFileFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if name == fs.failPath {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return fs.Fs.OpenFile(name, flag, perm)
}

func TestRunAbortsOnCopyFailure(t *testing.T) {
	memFs := afero.NewMemMapFs()
	fs = memFs
	setupFiles(t, []file{
		{"/work/template/a.txt", "old a"},
		{"/work/template/b.txt", "old b"},
		{"/work/template/c.txt", "old c"},
		{"/instance/a.txt", "new a"},
		{"/instance/b.txt", "new b"},
		{"/instance/c.txt", "new c"},
	})
	fs = failingOpenFileFs{Fs: memFs, failPath: "/work/template/b.txt"}

	var out bytes.Buffer
	s, _ := newTestSynchronizer(&out)
	report, err := s.Run(testConfig())
	assert.EqualError(t, err, "failed to copy file to '/work/template/b.txt': "+
		"open destination: open /work/template/b.txt: permission denied")
	assert.Equal(t, Report{Copied: []string{"a.txt"}}, report)

	assertFiles(t, []file{
		{"/work/template/a.txt", "new a"},
		{"/work/template/b.txt", "old b"},
		{"/work/template/c.txt", "old c"},
	})
	assert.NotContains(t, out.String(), "c.txt")
	assert.NotContains(t, out.String(), "Template update complete!")
}

type failingOpenFs struct {
	afero.Fs
	failPath string
}

func (fs failingOpenFs) Open(name string) (afero.File, error) {
	if name == fs.failPath {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return fs.Fs.Open(name)
}

func TestRunWalkFailure(t *testing.T) {
	memFs := afero.NewMemMapFs()
	fs = memFs
	setupFiles(t, []file{
		{"/work/template/a.txt", "old"},
		{"/work/template/locked/b.txt", "old"},
		{"/instance/a.txt", "new"},
	})
	fs = failingOpenFs{Fs: memFs, failPath: "/work/template/locked"}

	var out bytes.Buffer
	s, _ := newTestSynchronizer(&out)
	_, err := s.Run(testConfig())
	assert.EqualError(t, err, "failed to read template directory contents: "+
		`read dir "/work/template/locked": open /work/template/locked: permission denied`)

	assert.Empty(t, out.String())
	assertFiles(t, []file{{"/work/template/a.txt", "old"}})
}

func TestRunLogs(t *testing.T) {
	fs = afero.NewMemMapFs()
	setupFiles(t, []file{
		{"/work/template/a.txt", "old"},
		{"/instance/a.txt", "new"},
	})

	logger, hook := logrusTest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	clock := clockwork.NewFakeClock()
	s := New(&bytes.Buffer{}, logger, clock)

	_, err := s.Run(testConfig())
	assert.NoError(t, err)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Data["path"])
	assert.Equal(t, Copy, entries[0].Data["action"])
	assert.Equal(t, 1, entries[1].Data["copied"])
	assert.Equal(t, time.Duration(0), entries[1].Data["elapsed"])
}

func TestDecide(t *testing.T) {
	fs = afero.NewMemMapFs()
	setupFiles(t, []file{
		{"/instance/a.txt", "new"},
		{"/instance/.release-please-manifest.json", "new"},
	})
	ignore := IgnoreList(config.DefaultIgnore)

	assert.Equal(t, Copy, Decide(ignore, "a.txt", "/instance/a.txt"))
	assert.Equal(t, Warn, Decide(ignore, "b.txt", "/instance/b.txt"))
	assert.Equal(t, Skip, Decide(ignore, ".release-please-manifest.json",
		"/instance/.release-please-manifest.json"))
	assert.Equal(t, Skip, Decide(ignore, "sub/.release-please-manifest.json",
		"/instance/sub/.release-please-manifest.json"))
}

func TestRelativeTo(t *testing.T) {
	rel, err := relativeTo("/work/template", "/work/template/sub/b.txt")
	assert.NoError(t, err)
	assert.Equal(t, "sub/b.txt", rel)

	rel, err = relativeTo("/work/template", "/work/template/..hidden")
	assert.NoError(t, err)
	assert.Equal(t, "..hidden", rel)

	_, err = relativeTo("/work/template", "/work/other/b.txt")
	assert.EqualError(t, err,
		`failed to get relative path of "/work/other/b.txt" within "/work/template"`)
}
