package db

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go_mes/internal/config"
)

var conn *gorm.DB

// withFoundRows forces CLIENT_FOUND_ROWS on the connection so UPDATE
// reports matched rows, not changed rows. Without it a same-value update
// counts as 0 affected rows and is indistinguishable from a missing row.
func withFoundRows(dsn string) string {
	if strings.Contains(dsn, "clientFoundRows=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&clientFoundRows=true"
	}
	return dsn + "?clientFoundRows=true"
}

// InitMySQL opens the MySQL connection with a small fixed pool. Requests
// beyond pool capacity queue at the driver level.
func InitMySQL(cfg config.MySQLConfig) error {
	database, err := gorm.Open(mysql.Open(withFoundRows(cfg.DSN)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	conn = database
	log.Println("✓ MySQL connected successfully")
	return nil
}

// Get returns the shared gorm handle
func Get() *gorm.DB {
	return conn
}

// Close closes the underlying connection pool
func Close() error {
	if conn == nil {
		return nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
