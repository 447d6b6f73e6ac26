// internal/workers/reporting/pipeline-kpi/handler_test.go
package pipelinekpi

import (
	"context"
	"errors"
	"testing"

	"recruitment-workers/internal/common/logger"
	"recruitment-workers/internal/workers/reporting/pipeline-kpi/queries"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestHandler_Execute_CandidatesByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT status, COUNT`).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("PENDING", 12).
			AddRow("Lost, Age", 3).
			AddRow("Lost, Experience", 7))

	handler := NewHandler(LoadConfig(), db, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "candidates-by-status",
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, output.RowCount)

	data := output.Data.([]map[string]interface{})
	assert.Equal(t, "PENDING", data[0]["status"])
	assert.Equal(t, 12, data[0]["count"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CandidatesByStatusWithRoleFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT status, COUNT`).
		WithArgs("nanny").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("PENDING", 5))

	handler := NewHandler(LoadConfig(), db, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "candidates-by-status",
		Params:    map[string]interface{}{"role": "nanny"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.RowCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_ConversionRate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM candidates c`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "qualified", "interviewed", "recommended"}).
			AddRow(100, 40, 20, 10))

	handler := NewHandler(LoadConfig(), db, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "conversion-rate",
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, output.RowCount)

	data := output.Data.(map[string]interface{})
	assert.Equal(t, 100, data["total"])
	assert.Equal(t, 0.4, data["qualifiedRate"])
	assert.Equal(t, 0.5, data["interviewRate"])
	assert.Equal(t, 0.5, data["recommendRate"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_UnknownQueryType(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	handler := NewHandler(LoadConfig(), db, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "nonsense",
	})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, queries.ErrUnknownQueryType))
	assert.Nil(t, output)
}

func TestHandler_Execute_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT status, COUNT`).
		WillReturnError(errors.New("relation does not exist"))

	handler := NewHandler(LoadConfig(), db, logger.NewNoOpLogger())

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "candidates-by-status",
	})

	assert.Error(t, err)
	assert.Nil(t, output)

	assert.NoError(t, mock.ExpectationsWereMet())
}
