// Package mock provides the shared in-process test backends for the
// integration suite: a sqlite database that stands in for postgres and a
// miniredis instance for the distributed trigger guard.
package mock

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbOnce sync.Once
var db *Db

// Db wraps a shared in-memory sqlite connection with the schema of the
// real database. It is a process-wide singleton so every scenario talks
// to the same tables the server under test writes to.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
	schema string
}

// NewDb returns the singleton test database, migrating the given models
// on first use. The models map is keyed by table name for GetModel.
func NewDb(schema string, models map[string]any) *Db {
	dbOnce.Do(func() {
		db = open(schema, models)
	})
	return db
}

func open(schema string, models map[string]any) *Db {
	conn, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}

	// A single connection keeps the shared in-memory database alive for
	// the whole test run.
	conn.SetMaxOpenConns(1)

	gormDB, err := gorm.Open(sqlite.Dialector{Conn: conn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to open test database: " + err.Error())
	}

	d := &Db{
		DbConn: gormDB,
		schema: schema,
		models: models,
	}

	if err := d.ClearDB(); err != nil {
		panic(fmt.Sprintf("failed to prepare test database: %s", err))
	}

	return d
}

// ClearDB drops and recreates every registered table. Each scenario calls
// it so state never leaks between scenarios.
func (d *Db) ClearDB() error {
	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		if lastErr != nil {
			time.Sleep(100 * time.Millisecond)
		}

		if err := d.attachSchema(); err != nil {
			lastErr = err
			continue
		}
		if err := d.migrate(); err != nil {
			lastErr = err
			continue
		}
		if err := d.truncate(); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("failed to clear test database: %w", lastErr)
}

func (d *Db) attachSchema() error {
	err := d.DbConn.Exec("ATTACH ':memory:' AS " + d.schema).Error
	if err != nil && !strings.Contains(err.Error(), "is already in use") {
		return err
	}
	return nil
}

func (d *Db) migrate() error {
	modelList := make([]any, 0, len(d.models))
	for _, m := range d.models {
		modelList = append(modelList, m)
	}

	if err := d.DbConn.AutoMigrate(modelList...); err != nil {
		return err
	}

	for _, m := range modelList {
		if !d.DbConn.Migrator().HasTable(m) {
			return fmt.Errorf("table for model %T was not created", m)
		}
	}
	return nil
}

func (d *Db) truncate() error {
	for _, m := range d.models {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// GetModel returns the registered model for a table name, for
// reflection-based assertions in step definitions.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
