package mysql

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

const defaultPort = "3306"

// ParseConnectionString turns either a native DSN
// ("root:pw@tcp(localhost:3306)/app") or an ADO-style string
// ("Server=localhost; Port=3306; UserID=root;") into a native DSN.
// parseTime and multiStatements are always switched on so DATETIME columns
// scan as time.Time and "SET @x = ...; SELECT ..." runs as one command.
func ParseConnectionString(s string) (string, error) {
	s = strings.TrimSpace(s)

	cfg, nativeErr := mysql.ParseDSN(s)
	if nativeErr != nil {
		var err error
		cfg, err = parseKeyValue(s)
		if err != nil {
			return "", fmt.Errorf("invalid mysql connection string: %w", err)
		}
	}

	cfg.ParseTime = true
	cfg.MultiStatements = true
	return cfg.FormatDSN(), nil
}

func parseKeyValue(s string) (*mysql.Config, error) {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	host, port := "localhost", defaultPort

	seen := false
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("option %q is not key=value", part)
		}
		seen = true
		value = strings.TrimSpace(value)

		switch normalizeKey(key) {
		case "server", "host", "datasource", "address", "addr":
			host = value
		case "port":
			if _, err := strconv.Atoi(value); err != nil {
				return nil, fmt.Errorf("invalid port %q", value)
			}
			port = value
		case "userid", "uid", "user", "username":
			cfg.User = value
		case "password", "pwd":
			cfg.Passwd = value
		case "database", "initialcatalog", "db":
			cfg.DBName = value
		case "connectiontimeout", "connecttimeout":
			secs, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid connection timeout %q", value)
			}
			cfg.Timeout = time.Duration(secs) * time.Second
		case "charset", "characterset":
			if cfg.Params == nil {
				cfg.Params = map[string]string{}
			}
			cfg.Params["charset"] = value
		case "allowuservariables", "allowpublickeyretrieval", "pooling":
			// Accepted for compatibility; the Go driver needs no switch for these.
		default:
			return nil, fmt.Errorf("unsupported option %q", strings.TrimSpace(key))
		}
	}
	if !seen {
		return nil, fmt.Errorf("no options given")
	}

	cfg.Addr = net.JoinHostPort(host, port)
	return cfg, nil
}

func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer(" ", "", "_", "").Replace(k)
}
