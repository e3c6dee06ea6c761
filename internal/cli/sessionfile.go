package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// The token file lives under the user config dir so separate lumictl
// invocations reuse one session.

func sessionFilePath() (string, error) {
	if custom := os.Getenv("LUMICRM_SESSION_FILE"); custom != "" {
		return custom, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lumicrm", "session"), nil
}

func loadSessionToken() (string, error) {
	path, err := sessionFilePath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func saveSessionToken(token string) error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

func removeSessionToken() error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
