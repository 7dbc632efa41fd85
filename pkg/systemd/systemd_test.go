package systemd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitPath(t *testing.T) {
	vendor, admin := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(admin, "fstrim.timer"), nil, 0o644))

	assert.Equal(t, filepath.Join(admin, "fstrim.timer"), UnitPath([]string{vendor, admin}, "fstrim.timer"))
	assert.Empty(t, UnitPath([]string{vendor, admin}, "logrotate.timer"))
	assert.Empty(t, UnitPath(nil, "fstrim.timer"))
}

func TestTimerName(t *testing.T) {
	assert.Equal(t, "fstrim.timer", TimerName("fstrim"))
	assert.Equal(t, "fstrim.timer", TimerName("fstrim.timer"))
}

func TestReloadAndRestart(t *testing.T) {
	assert.Equal(t,
		"/bin/systemctl daemon-reload ; /bin/systemctl try-restart cron.target",
		ReloadAndRestart("/bin/systemctl", "cron.target"))
}
