package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziggy-data/investimento/internal/model"
)

func newTestLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func newDBMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, mock
}

var productColumns = []string{"id", "nome", "tipo", "rentabilidade_anual", "risco", "valor_minimo", "prazo_minimo_meses"}

func TestFindBestMatch(t *testing.T) {
	db, mock := newDBMock(t)
	repo := NewProductRepository(db, newTestLogger())

	mock.ExpectQuery("ORDER BY rentabilidade_anual DESC, id ASC").
		WithArgs("CDB", decimal.NewFromInt(10000), 12).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(2, "CDB Caixa Prefixado", "CDB", "0.135", model.RiscoModerado, "5000", 12))

	produto, err := repo.FindBestMatch(context.Background(), "CDB", decimal.NewFromInt(10000), 12)
	require.NoError(t, err)
	require.NotNil(t, produto)

	assert.Equal(t, int64(2), produto.ID)
	assert.Equal(t, "CDB Caixa Prefixado", produto.Nome)
	assert.True(t, produto.RentabilidadeAnual.Equal(decimal.RequireFromString("0.135")))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBestMatchNoRows(t *testing.T) {
	db, mock := newDBMock(t)
	repo := NewProductRepository(db, newTestLogger())

	mock.ExpectQuery("ORDER BY rentabilidade_anual DESC, id ASC").
		WithArgs("Tesouro", decimal.NewFromInt(100), 1).
		WillReturnError(sql.ErrNoRows)

	// Отсутствие подходящего продукта не является ошибкой запроса
	produto, err := repo.FindBestMatch(context.Background(), "Tesouro", decimal.NewFromInt(100), 1)
	require.NoError(t, err)
	assert.Nil(t, produto)
}

func TestFindByRiskTiers(t *testing.T) {
	db, mock := newDBMock(t)
	repo := NewProductRepository(db, newTestLogger())

	mock.ExpectQuery("WHERE risco = ANY").
		WithArgs(pq.Array([]string{model.RiscoBaixo, model.RiscoModerado})).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome", "tipo", "rentabilidade_anual", "risco"}).
			AddRow(1, "CDB Caixa 2026", "CDB", "0.12", model.RiscoBaixo).
			AddRow(4, "LCI Premium", "LCI", "0.115", model.RiscoModerado))

	produtos, err := repo.FindByRiskTiers(context.Background(), []string{model.RiscoBaixo, model.RiscoModerado})
	require.NoError(t, err)
	require.Len(t, produtos, 2)

	assert.Equal(t, "CDB Caixa 2026", produtos[0].Nome)
	assert.Equal(t, model.RiscoModerado, produtos[1].Risco)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProductCount(t *testing.T) {
	db, mock := newDBMock(t)
	repo := NewProductRepository(db, newTestLogger())

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
}

func TestProductCreateAssignsID(t *testing.T) {
	db, mock := newDBMock(t)
	repo := NewProductRepository(db, newTestLogger())

	mock.ExpectQuery("INSERT INTO produtos").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	produto := &model.Product{
		Nome:               "CDB Caixa 2026",
		Tipo:               "CDB",
		RentabilidadeAnual: decimal.RequireFromString("0.12"),
		Risco:              model.RiscoBaixo,
		ValorMinimo:        decimal.NewFromInt(500),
		PrazoMinimoMeses:   3,
	}

	require.NoError(t, repo.Create(context.Background(), produto))
	assert.Equal(t, int64(7), produto.ID)
}
