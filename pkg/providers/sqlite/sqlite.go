// Package sqlite provides a durable TodoProvider backed by SQLite through GORM.
// The driver is pure Go, so no cgo toolchain is needed to build or test it.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cecil-the-coder/todo-provider-kit/internal/logging"
	"github.com/cecil-the-coder/todo-provider-kit/pkg/types"
)

// DefaultDSN is the database file used when no DSN is configured.
const DefaultDSN = "todos.db"

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// SQLiteProvider implements types.Provider on a relational table.
type SQLiteProvider struct {
	name string
	dsn  string
	db   *gorm.DB
	log  *slog.Logger
}

// NewSQLiteProvider opens (or creates) the database named by config.DSN and
// migrates the todos table.
func NewSQLiteProvider(config types.ProviderConfig) (*SQLiteProvider, error) {
	dsn := config.DSN
	if dsn == "" {
		dsn = DefaultDSN
	}
	name := config.Name
	if name == "" {
		name = "sqlite"
	}

	log := logging.New("sqlite")
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger: newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	if strings.Contains(dsn, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&types.Item{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate todos: %w", err)
	}

	return &SQLiteProvider{name: name, dsn: dsn, db: db, log: log}, nil
}

// OpenMemory opens an in-memory database for testing.
func OpenMemory() (*SQLiteProvider, error) {
	return NewSQLiteProvider(types.ProviderConfig{Type: types.ProviderTypeSQLite, DSN: MemoryDSN})
}

func (p *SQLiteProvider) Name() string             { return p.name }
func (p *SQLiteProvider) Type() types.ProviderType { return types.ProviderTypeSQLite }

// DSN returns the data source name the provider was opened with.
func (p *SQLiteProvider) DSN() string { return p.dsn }

// HealthCheck pings the underlying database.
func (p *SQLiteProvider) HealthCheck(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return p.storageError("health_check", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return p.storageError("health_check", err)
	}
	return nil
}

// Close releases the database handle.
func (p *SQLiteProvider) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetAll implements types.TodoProvider. A non-blank search becomes a LIKE
// pattern; SQLite's LIKE ignores ASCII case.
func (p *SQLiteProvider) GetAll(ctx context.Context, search string) ([]types.Item, error) {
	q := p.db.WithContext(ctx).Model(&types.Item{})
	if !types.IsBlank(search) {
		q = q.Where("title LIKE ?", "%"+search+"%")
	}

	items := make([]types.Item, 0)
	if err := q.Order("id").Find(&items).Error; err != nil {
		return nil, p.storageError("get_all", err)
	}
	return items, nil
}

// Add implements types.TodoProvider. The identifier is always generated by the engine.
func (p *SQLiteProvider) Add(ctx context.Context, item types.Item) (types.Item, error) {
	item.ID = 0
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if err := p.db.WithContext(ctx).Create(&item).Error; err != nil {
		return types.Item{}, p.storageError("add", err)
	}
	return item, nil
}

// Update implements types.TodoProvider. Every column is overwritten; a row
// count of zero means the identifier was unknown and nothing happens.
func (p *SQLiteProvider) Update(ctx context.Context, item types.Item) error {
	res := p.db.WithContext(ctx).
		Model(&types.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"title":       item.Title,
			"is_complete": item.IsComplete,
			"created_at":  item.CreatedAt,
		})
	if res.Error != nil {
		return p.storageError("update", res.Error)
	}
	if res.RowsAffected == 0 {
		p.log.DebugContext(ctx, "update matched no row", "provider", p.name, "id", item.ID)
	}
	return nil
}

// Delete implements types.TodoProvider. The row is looked up first and only
// removed when found.
func (p *SQLiteProvider) Delete(ctx context.Context, id int) error {
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing types.Item
		res := tx.Limit(1).Find(&existing, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		return tx.Delete(&existing).Error
	})
	if err != nil {
		return p.storageError("delete", err)
	}
	return nil
}

func (p *SQLiteProvider) storageError(op string, err error) error {
	return types.NewStorageError(types.ProviderTypeSQLite, op, err)
}

// gormWriter adapts slog to GORM's logger.Writer.
type gormWriter struct {
	log *slog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(fmt.Sprintf(format, args...))
}

func newGormLogger(l *slog.Logger) logger.Interface {
	return logger.New(gormWriter{log: l}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
