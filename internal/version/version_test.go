package version

import (
	"runtime/debug"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuildInfo(t *testing.T, bi *debug.BuildInfo, ok bool) {
	t.Helper()
	original := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, ok }
	t.Cleanup(func() { readBuildInfo = original })
}

func withLinkerValues(t *testing.T, version, commit, built string) {
	t.Helper()
	v, c, b := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = version, commit, built
	t.Cleanup(func() { Version, GitCommit, BuildTime = v, c, b })
}

func TestGetFromVCSSettings(t *testing.T) {
	withLinkerValues(t, "dev", "", "")
	withBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2024-03-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}, true)

	info := Get()

	assert.Equal(t, "dev", info.Version)
	assert.Equal(t, "0123456789abcdef", info.GitCommit)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), info.BuildTime)
	assert.True(t, info.Dirty)
	assert.False(t, info.IsRelease())
	assert.Equal(t, "dev (0123456) (dirty)", info.Short())
}

func TestGetPrefersLinkerValues(t *testing.T) {
	withLinkerValues(t, "v1.2.0", "abcdef0", "2024-01-02T03:04:05Z")
	withBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.0.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffff"}},
	}, true)

	info := Get()

	assert.Equal(t, "v1.2.0", info.Version)
	assert.Equal(t, "abcdef0", info.GitCommit)
	assert.True(t, info.IsRelease())
	assert.Contains(t, info.String(), "Built: 2024-01-02T03:04:05Z")
	assert.Contains(t, info.String(), "Build type: release")
}

func TestGetModuleVersion(t *testing.T) {
	withLinkerValues(t, "dev", "", "")
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v0.3.0"}}, true)

	info := Get()

	assert.Equal(t, "v0.3.0", info.Version)
	assert.Equal(t, "v0.3.0", info.Short())
}

func TestGetWithoutBuildInfo(t *testing.T) {
	withLinkerValues(t, "dev", "", "garbage")
	withBuildInfo(t, nil, false)

	info := Get()

	assert.Equal(t, "dev", info.Version)
	assert.True(t, info.BuildTime.IsZero())
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.String(), "Build type: development")
	assert.NotContains(t, info.String(), "Commit:")
}
