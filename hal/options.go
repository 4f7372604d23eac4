package hal

// Options configures a HAL implementation.
type Options struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is console or json.
	LogFormat string
	// LogPath receives log output instead of stderr when set.
	LogPath string
	// BackupPath is the file holding the backup registers.
	// BEDCLOCK_BACKUP_PATH overrides it.
	BackupPath string
}
