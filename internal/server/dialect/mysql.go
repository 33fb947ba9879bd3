package dialect

import (
	"io/fs"
	"strings"

	_ "github.com/go-sql-driver/mysql"
)

// MySQL is the MySQL backend, served by go-sql-driver/mysql.
type MySQL struct{}

func (MySQL) Name() string               { return "mysql" }
func (MySQL) DriverName() string         { return "mysql" }
func (MySQL) GooseDialect() string       { return "mysql" }
func (MySQL) Rebind(query string) string { return RebindToQuestion(query) }
func (MySQL) Migrations() fs.FS          { return migrationsDir("mysql") }

// PrepareDSN enables parseTime so register_at scans into time.Time.
func (MySQL) PrepareDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=true"
	}
	return dsn + "?parseTime=true"
}
