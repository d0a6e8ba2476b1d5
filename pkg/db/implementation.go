package db

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type database struct {
	db *gorm.DB
}

// New creates a new database connection
func New(ctx context.Context, dialect string, dsn string, config *gorm.Config) (Database, error) {
	if config == nil {
		config = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	}

	var db *gorm.DB
	var err error

	if dialect == "sqlite" {
		db, err = gorm.Open(sqlite.Open(dsn), config)
		if err == nil {
			db.Exec("PRAGMA foreign_keys = ON")
		}
	} else if dialect == "mysql" {
		db, err = gorm.Open(mysql.Open(dsn), config)
	} else {
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}

	if err != nil {
		return nil, err
	}

	db = db.WithContext(ctx)

	if err := db.AutoMigrate(
		&Account{},
		&PricingTier{},
		&Website{},
		&Domain{},
		&DNSRecord{},
		&Credential{},
		&SERPEntry{},
		&LinkedApp{},
		&APIWebhook{},
		&WebsiteLink{},
	); err != nil {
		return nil, err
	}

	return &database{db: db}, nil
}

func (d *database) Accounts() Table[Account] { return table[Account]{d.db} }

func (d *database) Tiers() Table[PricingTier] { return table[PricingTier]{d.db} }

func (d *database) Websites() Table[Website] { return table[Website]{d.db} }

func (d *database) Domains() Table[Domain] { return table[Domain]{d.db} }

func (d *database) DNSRecords() Table[DNSRecord] { return table[DNSRecord]{d.db} }

func (d *database) Credentials() Table[Credential] { return table[Credential]{d.db} }

func (d *database) SERPEntries() Table[SERPEntry] { return table[SERPEntry]{d.db} }

func (d *database) LinkedApps() Table[LinkedApp] { return table[LinkedApp]{d.db} }

func (d *database) APIWebhooks() Table[APIWebhook] { return table[APIWebhook]{d.db} }

func (d *database) Links() Table[WebsiteLink] { return table[WebsiteLink]{d.db} }

func (d *database) Transaction(fn func(tx Database) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(&database{db: tx})
	})
}

// table adapts one gorm model to the Table contract.
type table[T any] struct {
	db *gorm.DB
}

func (t table[T]) List(conds map[string]any) ([]T, error) {
	var recs []T
	q := t.db.Model(new(T))
	if len(conds) > 0 {
		q = q.Where(conds)
	}
	sql := q.Order("created_at DESC").Find(&recs)
	return recs, sql.Error
}

func (t table[T]) Get(id string) (T, bool, error) {
	var rec T
	sql := t.db.Where("id = ?", id).Limit(1).Find(&rec)
	if sql.Error != nil {
		return rec, false, sql.Error
	}
	return rec, sql.RowsAffected > 0, nil
}

func (t table[T]) Insert(rec *T) error {
	sql := t.db.Create(rec)
	return sql.Error
}

func (t table[T]) Save(rec *T) error {
	sql := t.db.Save(rec)
	return sql.Error
}

func (t table[T]) Remove(id string) (int64, error) {
	sql := t.db.Where("id = ?", id).Delete(new(T))
	return sql.RowsAffected, sql.Error
}

func (t table[T]) RemoveWhere(conds map[string]any) (int64, error) {
	sql := t.db.Where(conds).Delete(new(T))
	return sql.RowsAffected, sql.Error
}

func (t table[T]) Count(conds map[string]any) (int64, error) {
	var n int64
	q := t.db.Model(new(T))
	if len(conds) > 0 {
		q = q.Where(conds)
	}
	sql := q.Count(&n)
	return n, sql.Error
}
