package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default("")
	assert.Equal(t, "/etc/crontab", cfg.Sources.Crontab)
	assert.Equal(t, "/etc/cron.weekly", cfg.Sources.Parts["weekly"])
	assert.Equal(t, DefaultSpool, cfg.Sources.Spool)
	assert.Equal(t, []string{"/lib/systemd/system", "/usr/lib/systemd/system", "/etc/systemd/system"}, cfg.Units.Dirs)
	assert.Equal(t, "/lib/systemd-cron/boot_delay", cfg.Units.BootDelay)
	assert.Equal(t, "/bin/systemctl", cfg.Units.Systemctl)
	assert.NoError(t, cfg.Validate())

	usr := Default("/usr/")
	assert.Equal(t, "/usr", usr.Prefix)
	assert.Equal(t, []string{"/usr/lib/systemd/system", "/etc/systemd/system"}, usr.Units.Dirs)
	assert.Equal(t, "/usr/bin/systemctl", usr.Units.Systemctl)
}

func TestParseYAMLOverrides(t *testing.T) {
	cfg, err := Parse("generator.yaml", []byte(`
prefix: /usr
sources:
  spool: /var/spool/cron
  parts:
    daily: /srv/daily
units:
  shell: /bin/dash
logging:
  journal: true
mask:
  certbot: certbot
`))
	require.NoError(t, err)
	assert.Equal(t, "/var/spool/cron", cfg.Sources.Spool)
	assert.Equal(t, "/srv/daily", cfg.Sources.Parts["daily"])
	assert.Equal(t, "/etc/cron.hourly", cfg.Sources.Parts["hourly"])
	assert.Equal(t, "/bin/dash", cfg.Units.Shell)
	assert.Equal(t, "/usr/lib/systemd-cron/boot_delay", cfg.Units.BootDelay)
	assert.True(t, cfg.Logging.Journal)
	assert.Equal(t, map[string]string{"certbot": "certbot"}, cfg.Mask)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
	}{
		{"unknown field", "c.yaml", "sources:\n  spol: /x\n"},
		{"relative path", "c.yaml", "sources:\n  spool: var/spool\n"},
		{"unknown period", "c.yaml", "sources:\n  parts:\n    fortnightly: /etc/cron.fortnightly\n"},
		{"bad target", "c.yaml", "units:\n  target: cron.service\n"},
		{"trailing json", "c.json", `{"prefix":"/usr"}{"prefix":"/"}`},
		{"bad yaml", "c.yaml", "sources: [\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.path, []byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse("c.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, Default(""), cfg)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(""), cfg)

	path := filepath.Join(dir, "generator.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"units":{"shell":"/bin/bash"}}`), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/bin/bash", cfg.Units.Shell)

	require.NoError(t, os.WriteFile(path, []byte(`{"nope":1}`), 0o644))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	assert.Equal(t, DefaultPath, ResolvePath())
	t.Setenv(EnvConfigPath, "/tmp/x.yaml")
	assert.Equal(t, "/tmp/x.yaml", ResolvePath())
}
