package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/guardline/workforce-api/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	assert.NoError(t, err)

	return db, mock
}

func TestListOpenWithDueDate_FiltersAndOrders(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	due := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "title", "status", "due_date", "escalation_status"}).
		AddRow(1, "Patrol report", "TODO", due, "NONE").
		AddRow(2, "Badge audit", "IN_PROGRESS", due, "LEVEL_1")

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE tasks\.status <> \$1 AND tasks\.due_date IS NOT NULL AND "tasks"\."deleted_at" IS NULL ORDER BY tasks\.id ASC`).
		WithArgs(string(models.TaskStatusDone)).
		WillReturnRows(rows)

	tasks, err := repo.ListOpenWithDueDate()

	assert.NoError(t, err)
	assert.Len(t, tasks, 2)
	assert.Equal(t, uint64(1), tasks[0].ID)
	assert.Equal(t, models.EscalationLevel1, tasks[1].EscalationStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEscalationStatus_TouchesOnlyStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET "escalation_status"=\$1,"updated_at"=\$2 WHERE id = \$3 AND "tasks"\."deleted_at" IS NULL`).
		WithArgs(string(models.EscalationLevel1), sqlmock.AnyArg(), 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateEscalationStatus(42, models.EscalationLevel1)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_EmptyOrganizationsShortCircuits(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	tasks, total, err := repo.List(TaskFilter{})

	assert.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
