package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trading-system/backend/internal/domain/catalog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockArticleRepository(t *testing.T) (*GormArticleRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormArticleRepository(gormDB), mock, mockDB
}

func TestGormArticleRepository_FindByID_Postgres(t *testing.T) {
	t.Run("maps row to article", func(t *testing.T) {
		repo, mock, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		id, tenantID, groupID, lineID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
		rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "description", "current_cost", "suggested_price", "group_id", "line_id", "status", "version"}).
			AddRow(id, tenantID, "A001", "Cola 500ml", "6.5000", "0", groupID, lineID, "active", 3)

		mock.ExpectQuery(`SELECT \* FROM "articles" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnRows(rows)

		article, err := repo.FindByID(context.Background(), id)

		require.NoError(t, err)
		assert.Equal(t, id, article.ID)
		assert.Equal(t, tenantID, article.TenantID)
		assert.Equal(t, groupID, article.GroupID)
		assert.Equal(t, lineID, article.LineID)
		assert.True(t, article.CurrentCost.Equal(decimal.RequireFromString("6.5")))
		assert.Equal(t, 3, article.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to ErrArticleNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockArticleRepository(t)
		defer mockDB.Close()

		id := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "articles" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(id, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), id)

		assert.ErrorIs(t, err, catalog.ErrArticleNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormArticleRepository_SQLite(t *testing.T) {
	db := setupTestDB(t)
	f := seedCatalog(t, db)
	repo := NewGormArticleRepository(db)
	ctx := context.Background()

	t.Run("FindByID resolves group and line", func(t *testing.T) {
		article, err := repo.FindByID(ctx, f.article.ID)
		require.NoError(t, err)
		assert.Equal(t, "A001", article.Code)
		assert.Equal(t, f.group.ID, article.GroupID)
		assert.Equal(t, f.line.ID, article.LineID)
		assert.True(t, article.CurrentCost.Equal(decimal.NewFromInt(6)))
	})

	t.Run("FindByIDs skips unknown ids", func(t *testing.T) {
		missing := uuid.New()
		found, err := repo.FindByIDs(ctx, []uuid.UUID{f.article.ID, missing})
		require.NoError(t, err)
		assert.Len(t, found, 1)
		assert.Contains(t, found, f.article.ID)
		assert.NotContains(t, found, missing)
	})

	t.Run("FindByIDs with no ids", func(t *testing.T) {
		found, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("FindByID unknown", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, catalog.ErrArticleNotFound)
	})
}
