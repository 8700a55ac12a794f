package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "purgedev"

// Dir returns $XDG_CONFIG_HOME/purgedev, defaulting to ~/.config/purgedev.
func Dir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, appName), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ─── Never-Delete Paths ──────────────────────────────────────────────────────

// winDir returns the Windows directory (e.g., C:\Windows).
// Falls back to C:\Windows only if %WINDIR% is not set.
func winDir() string {
	if w := os.Getenv("WINDIR"); w != "" {
		return w
	}
	return `C:\Windows`
}

// systemDrive returns the system drive with backslash (e.g., C:\).
func systemDrive() string {
	if d := os.Getenv("SYSTEMDRIVE"); d != "" {
		return d + `\`
	}
	return `C:\`
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NeverDeletePaths returns system locations the cleaner must refuse to
// delete, or to delete any ancestor of, for the running platform.
func NeverDeletePaths() []string {
	switch runtime.GOOS {
	case "windows":
		w := winDir()
		sd := systemDrive()
		return []string{
			w,
			filepath.Join(w, "System32"),
			filepath.Join(w, "SysWOW64"),
			filepath.Join(w, "WinSxS"),
			filepath.Join(sd, "Boot"),
			filepath.Join(sd, "EFI"),
			envOr("PROGRAMFILES", `C:\Program Files`),
			envOr("PROGRAMFILES(X86)", `C:\Program Files (x86)`),
			envOr("PROGRAMDATA", `C:\ProgramData`),
			filepath.Join(sd, "Users"),
			filepath.Join(sd, "Recovery"),
		}
	case "darwin":
		return []string{
			"/System", "/Library", "/Applications", "/Users", "/bin", "/sbin",
			"/usr", "/etc", "/var", "/private", "/opt/homebrew",
		}
	default:
		return []string{
			"/bin", "/boot", "/dev", "/etc", "/home", "/lib", "/lib64", "/opt",
			"/proc", "/root", "/sbin", "/srv", "/sys", "/usr", "/var",
		}
	}
}
