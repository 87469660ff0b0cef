// Package config reads AMI connection parameters from the filesystem,
// the out-of-scope "external collaborator" named in the core protocol
// specification. It is grounded on the original Asterisk/Config.py:
// same search path, same [pbx-connection] section and keys, ported to
// Viper since the file format itself is left to this collaborator.
package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Error reports a configuration problem: no file found in the search
// path, a missing [pbx-connection] section, or a missing hostname. A file
// that cannot be read or parsed is reported as the underlying error,
// wrapped with eris, not as an Error.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

// searchPaths returns the candidate configuration file locations, in the
// order the original checks them.
func searchPaths() []string {
	var paths []string
	if v := os.Getenv("PYASTERISK_CONF"); v != "" {
		paths = append(paths, filepath.Join(v, "py-asterisk.conf"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".py-asterisk.conf"))
	}
	paths = append(paths,
		"./py-asterisk.conf",
		"/etc/py-asterisk.conf",
		"/etc/asterisk/py-asterisk.conf",
	)
	return paths
}

// Connection is the (host, port, username, secret) tuple a Session needs
// to dial and authenticate, plus the name under which this connection
// was found (the default connection name, used by multi-section
// configuration files).
type Connection struct {
	Name     string
	Host     string
	Port     int
	Username string
	Secret   string
}

// Addr returns "host:port", ready to pass to gami.Dial.
func (c Connection) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load searches the standard locations (or reads explicitPath, if
// non-empty) for a py-asterisk.conf-shaped INI file and returns its
// [pbx-connection] section.
func Load(explicitPath string) (*Connection, error) {
	v := viper.New()
	v.SetConfigType("ini")

	path := explicitPath
	if path == "" {
		for _, candidate := range searchPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path == "" {
		return nil, eris.Wrap(&Error{msg: "cannot find a suitable configuration file in the search path"}, "config")
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, eris.Wrapf(err, "config: %s contains invalid data", path)
	}

	section := v.Sub("pbx-connection")
	if section == nil {
		return nil, eris.Wrap(&Error{msg: path + ": missing [pbx-connection] section"}, "config")
	}

	conn := &Connection{
		Name:     "default",
		Host:     section.GetString("hostname"),
		Port:     section.GetInt("port"),
		Username: section.GetString("username"),
		Secret:   section.GetString("secret"),
	}
	if conn.Host == "" {
		return nil, eris.Wrap(&Error{msg: path + ": pbx-connection.hostname is required"}, "config")
	}
	return conn, nil
}
