package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	DistCode string `json:"dist_code"`
	FpsId    string `json:"fps_id"`
	DelayMs  int    `json:"request_delay_ms"`
	Cache    struct {
		Dir string `json:"dir"`
	} `json:"cache"`
}

func writeFile(t *testing.T, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "epos.json5")

	writeFile(t, name, `{
		// shop under test
		dist_code: "233",
		fps_id: "123300100909",
		request_delay_ms: 1000,
		cache: { dir: "data" },
	}`)
	writeFile(t, filepath.Join(dir, "epos.local.json5"), `{
		fps_id: "999",
		cache: { dir: "/tmp/cache" },
	}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "233", cfg.DistCode)
	require.Equal(t, "999", cfg.FpsId)
	require.Equal(t, 1000, cfg.DelayMs)
	require.Equal(t, "/tmp/cache", cfg.Cache.Dir)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "epos.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "epos.local.json5"), `{fps_id: "1"}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "epos.json5"))
	require.NoError(t, err)
	require.Equal(t, "1", cfg.FpsId)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "epos.json5")
	writeFile(t, name, `{fps_id: `)

	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestWithDefaults(t *testing.T) {
	defaults := testConfig{DistCode: "233", FpsId: "123300100909", DelayMs: 1000}
	defaults.Cache.Dir = "data"

	cfg, err := WithDefaults(testConfig{FpsId: "42"}, defaults)
	require.NoError(t, err)
	require.Equal(t, "233", cfg.DistCode)
	require.Equal(t, "42", cfg.FpsId)
	require.Equal(t, 1000, cfg.DelayMs)
	require.Equal(t, "data", cfg.Cache.Dir)
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("conf", "epos.local.json5"), LocalPath(filepath.Join("conf", "epos.json5")))
}
