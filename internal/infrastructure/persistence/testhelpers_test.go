package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/trading-system/backend/internal/domain/catalog"
	"github.com/trading-system/backend/internal/domain/pricing"
	"github.com/trading-system/backend/internal/domain/shared/valueobject"
	"github.com/trading-system/backend/internal/infrastructure/config"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated in-memory SQLite database.
// A single connection keeps every query on the same in-memory schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := NewDatabase(config.DatabaseConfig{
		Driver:       "sqlite",
		DBName:       ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate())

	t.Cleanup(func() {
		_ = database.Close()
	})
	return database.DB
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

type catalogFixture struct {
	tenantID uuid.UUID
	line     catalog.Line
	group    catalog.Group
	article  *catalog.Article
}

func seedCatalog(t *testing.T, db *gorm.DB) catalogFixture {
	t.Helper()

	repo := NewGormArticleRepository(db)
	f := catalogFixture{tenantID: uuid.New()}
	f.line = catalog.Line{ID: uuid.New(), Code: "L01", Name: "Beverages", Status: catalog.StatusActive}
	f.group = catalog.Group{ID: uuid.New(), Code: "G01", Name: "Soft drinks", LineID: f.line.ID, Status: catalog.StatusActive}

	ctx := t.Context()
	require.NoError(t, repo.SaveLine(ctx, f.tenantID, f.line))
	require.NoError(t, repo.SaveGroup(ctx, f.tenantID, f.group))

	article, err := catalog.NewArticle(f.tenantID, "A001", "Cola 500ml", f.group)
	require.NoError(t, err)
	require.NoError(t, article.SetCost(decimal.NewFromInt(6)))
	require.NoError(t, repo.Save(ctx, article))
	f.article = article
	return f
}

func newList(t *testing.T, tenantID, branchID uuid.UUID, code string, channel pricing.Channel, from, to string) *pricing.PriceList {
	t.Helper()
	list, err := pricing.NewPriceList(tenantID, branchID, code, "List "+code, channel, valueobject.PEN, day(from), day(to))
	require.NoError(t, err)
	return list
}
