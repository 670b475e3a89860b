package db

import (
	"yatube/config"
	"yatube/logger"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var Instance *gorm.DB

// Init connects to MySQL, Postgres or SQLite (in that order of preference) depending on the config
func Init() {
	switch {
	case config.MYSQL_DSN != "":
		if cfg, err := mysqldriver.ParseDSN(config.MYSQL_DSN); err == nil {
			logger.Info("using MySQL", zap.String("addr", cfg.Addr), zap.String("db", cfg.DBName))
		}
		Open(mysql.Open(config.MYSQL_DSN))
	case config.POSTGRES_DSN != "":
		logger.Info("using Postgres")
		Open(postgres.Open(config.POSTGRES_DSN))
	default:
		logger.Info("using SQLite", zap.String("file", config.SQLITE_FILE))
		OpenSQLite(config.SQLITE_FILE)
	}
}

// OpenSQLite opens a file (or ":memory:") database with foreign keys enforced.
// A single connection is used, so in-memory databases are shared by all queries.
func OpenSQLite(file string) {
	Open(sqlite.Open(file + "?_foreign_keys=on"))
	sqlDB, err := Instance.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err = Instance.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		panic(err)
	}
}

func Open(dialector gorm.Dialector) {
	logLevel := gormlogger.Warn
	if !config.DEBUG_MODE {
		logLevel = gormlogger.Error
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		Logger:                 gormlogger.Default.LogMode(logLevel),
	})
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}
