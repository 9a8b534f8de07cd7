package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/hsalves/clinistock-backend/pkg/errors"
)

func setupClientTestDB(t *testing.T) *Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(`CREATE TABLE IF NOT EXISTS scratch_rows (id INTEGER PRIMARY KEY, label TEXT NOT NULL)`).Error)
	return FromGorm(conn)
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	client := setupClientTestDB(t)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Exec(`INSERT INTO scratch_rows (label) VALUES ('kept')`).Error
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, client.DB().Table("scratch_rows").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := setupClientTestDB(t)
	boom := errors.New("write rejected")

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Exec(`INSERT INTO scratch_rows (label) VALUES ('discarded')`).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, client.DB().Table("scratch_rows").Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestWithTxReplaysSerializationLosers(t *testing.T) {
	client := setupClientTestDB(t)

	attempts := 0
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		attempts++
		if attempts == 1 {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("database is locked"), "debit clinic stock")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts, "losing attempt must be replayed against committed state")
}

func TestWithTxDoesNotReplayOtherErrors(t *testing.T) {
	client := setupClientTestDB(t)

	attempts := 0
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		attempts++
		return pkgerrors.New(pkgerrors.CodeInsufficientClinic, "insufficient clinic stock")
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeInsufficientClinic, pkgerrors.As(err).Code())
	assert.Equal(t, 1, attempts)
}

func TestWithTxGivesUpAfterBoundedAttempts(t *testing.T) {
	client := setupClientTestDB(t)

	attempts := 0
	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		attempts++
		return errors.New("could not serialize access due to concurrent update (SQLSTATE 40001)")
	})
	require.Error(t, err)
	assert.Equal(t, txMaxAttempts, attempts)
}

func TestIsSerializationFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"postgres serialization", errors.New("ERROR: could not serialize access due to read/write dependencies among transactions (SQLSTATE 40001)"), true},
		{"sqlite lock", errors.New("database is locked"), true},
		{"wrapped by service", pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("database table is locked"), "append movement"), true},
		{"ordinary failure", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsSerializationFailure(tc.err))
		})
	}
}
