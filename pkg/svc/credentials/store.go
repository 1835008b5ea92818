package credentials

import (
	"bytes"
	"fmt"
	"strconv"
	"sync"

	"github.com/devantler-tech/argoboot/pkg/fsutil"
	"gopkg.in/ini.v1"
)

const filePerms = 0o600

// Connection-info keys.
const (
	KeyPort     = "ARGOCD_PORT"
	KeyURL      = "ARGOCD_URL"
	KeyUsername = "ARGOCD_USERNAME"
	KeyPassword = "ARGOCD_PASSWORD"
)

var iniFormatOnce sync.Once //nolint:gochecknoglobals // ini formatting is package-global

// '#' and ';' are literal value characters, not inline comments.
var iniOptions = ini.LoadOptions{IgnoreInlineComment: true} //nolint:gochecknoglobals

// Connection is what a client needs to reach Argo CD through the tunnel.
type Connection struct {
	Port     int
	URL      string
	Username string
	Password string
}

// Store persists a Connection to the password file and the connection-info file.
type Store struct {
	PasswordFile   string
	ConnectionFile string
}

// Removal reports the outcome for one file.
type Removal struct {
	Path    string
	Removed bool
}

// Save writes the bare password and the KEY=value connection file, both 0600.
func (s Store) Save(conn Connection) error {
	err := fsutil.WriteFile(s.PasswordFile, []byte(conn.Password), filePerms)
	if err != nil {
		return fmt.Errorf("write password file: %w", err)
	}

	content, err := RenderConnection(conn)
	if err != nil {
		return err
	}

	err = fsutil.WriteFile(s.ConnectionFile, content, filePerms)
	if err != nil {
		return fmt.Errorf("write connection file: %w", err)
	}

	return nil
}

// Remove deletes both files when present.
func (s Store) Remove() ([]Removal, error) {
	removals := make([]Removal, 0, 2) //nolint:mnd

	for _, path := range []string{s.PasswordFile, s.ConnectionFile} {
		removed, err := fsutil.RemoveIfExists(path)
		if err != nil {
			return removals, fmt.Errorf("remove %s: %w", path, err)
		}

		removals = append(removals, Removal{Path: path, Removed: removed})
	}

	return removals, nil
}

// RenderConnection renders conn as section-less KEY=value lines. Values keep '#' and ';'
// unquoted. Turning off ini.PrettyFormat affects the whole process; nothing else in
// argoboot writes ini.
func RenderConnection(conn Connection) ([]byte, error) {
	iniFormatOnce.Do(func() { ini.PrettyFormat = false })

	file := ini.Empty(iniOptions)
	section := file.Section(ini.DefaultSection)

	for _, kv := range [][2]string{
		{KeyPort, strconv.Itoa(conn.Port)},
		{KeyURL, conn.URL},
		{KeyUsername, conn.Username},
		{KeyPassword, conn.Password},
	} {
		_, err := section.NewKey(kv[0], kv[1])
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", kv[0], err)
		}
	}

	var buf bytes.Buffer

	_, err := file.WriteTo(&buf)
	if err != nil {
		return nil, fmt.Errorf("render connection file: %w", err)
	}

	return buf.Bytes(), nil
}

// LoadConnection reads a connection file written by Save.
func LoadConnection(path string) (Connection, error) {
	file, err := ini.LoadSources(iniOptions, path)
	if err != nil {
		return Connection{}, fmt.Errorf("load connection file: %w", err)
	}

	section := file.Section(ini.DefaultSection)

	port, err := section.Key(KeyPort).Int()
	if err != nil {
		return Connection{}, fmt.Errorf("parse %s: %w", KeyPort, err)
	}

	return Connection{
		Port:     port,
		URL:      section.Key(KeyURL).String(),
		Username: section.Key(KeyUsername).String(),
		Password: section.Key(KeyPassword).String(),
	}, nil
}
