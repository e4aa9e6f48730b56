// Package profiler collects live statistics from the analyzed database. All
// collection is best effort: a failing table or column records its error in
// place instead of aborting the run.
package profiler

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/schemalens-ai/schemalens-engine/pkg/apperrors"
)

// Supported driver names as they appear in JDBC URLs.
const (
	DriverPostgres  = "postgresql"
	DriverSQLServer = "sqlserver"
)

// ConnectionInfo is a parsed JDBC connection URL.
type ConnectionInfo struct {
	Driver   string
	Host     string
	Port     string
	Database string
	User     string
	Password string
	Params   url.Values
}

// ParseJDBCURL parses a jdbc:<driver>://host:port/database?user=..&password=..
// connection string. The jdbc: prefix is mandatory; user and password come
// from the query parameters.
func ParseJDBCURL(raw string) (ConnectionInfo, error) {
	if !strings.HasPrefix(raw, "jdbc:") {
		return ConnectionInfo{}, fmt.Errorf("%w: missing jdbc: prefix", apperrors.ErrInvalidConnectionURL)
	}
	parsed, err := url.Parse(strings.TrimPrefix(raw, "jdbc:"))
	if err != nil {
		return ConnectionInfo{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidConnectionURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return ConnectionInfo{}, fmt.Errorf("%w: missing driver or host", apperrors.ErrInvalidConnectionURL)
	}

	params := parsed.Query()
	info := ConnectionInfo{
		Driver:   parsed.Scheme,
		Host:     parsed.Hostname(),
		Port:     parsed.Port(),
		Database: strings.TrimPrefix(parsed.Path, "/"),
		User:     params.Get("user"),
		Password: params.Get("password"),
		Params:   params,
	}
	return info, nil
}

// DSN renders the native connection string for the parsed driver.
func (c ConnectionInfo) DSN() string {
	hostPort := c.Host
	if c.Port != "" {
		hostPort += ":" + c.Port
	}
	u := url.URL{
		Scheme: c.Driver,
		Host:   hostPort,
		Path:   "/" + c.Database,
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}
	return u.String()
}
