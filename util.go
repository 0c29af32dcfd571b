package permutevcf

import (
	"os/user"
	"path/filepath"
	"strings"

	"github.com/carbocation/pfx"
)

// WhichSQLiteDriver names the database/sql driver used for manifests.
func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}

// ExpandHome replaces a leading ~/ with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	usr, err := user.Current()
	if err != nil {
		return "", pfx.Err(err)
	}

	return filepath.Join(usr.HomeDir, path[2:]), nil
}
