package database

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/semg6/personal-library/internal/config"
)

const (
	defaultMySQLPort    = 3306
	defaultPostgresPort = 5432
)

// dialector builds the gorm dialector for the configured database type.
func dialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Type {
	case config.DatabaseSQLite, "":
		return sqlite.Open(sqliteDSN(cfg.Path)), nil
	case config.DatabaseMySQL:
		return mysql.Open(mysqlConfig(cfg).FormatDSN()), nil
	case config.DatabasePostgres:
		return postgres.Open(postgresDSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.Type)
	}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on"
}

func mysqlConfig(cfg config.Database) *mysqlDriver.Config {
	port := cfg.Port
	if port == 0 {
		port = defaultMySQLPort
	}

	mc := mysqlDriver.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc
}

func postgresDSN(cfg config.Database) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPostgresPort
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.Host, port, cfg.User, cfg.Password, cfg.Name)
}
