package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-seed/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lockKey = "quizseed:seed:lock:sqlite/quiz.db"

func TestRedisRunLock_AcquireAndRelease(t *testing.T) {
	db, mock := redismock.NewClientMock()
	lock := NewRedisRunLock(db, lockKey, time.Minute)
	ctx := context.Background()
	require.NotEmpty(t, lock.Token())

	mock.ExpectSetNX(lockKey, lock.Token(), time.Minute).SetVal(true)
	mock.ExpectEval(releaseScript, []string{lockKey}, lock.Token()).SetVal(int64(1))

	require.NoError(t, lock.Acquire(ctx))
	require.NoError(t, lock.Release(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRunLock_Held(t *testing.T) {
	db, mock := redismock.NewClientMock()
	lock := NewRedisRunLock(db, lockKey, time.Minute)

	mock.ExpectSetNX(lockKey, lock.Token(), time.Minute).SetVal(false)

	err := lock.Acquire(context.Background())
	assert.True(t, domain.IsLockHeldError(err))
	assert.ErrorContains(t, err, lockKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRunLock_RedisError(t *testing.T) {
	db, mock := redismock.NewClientMock()
	lock := NewRedisRunLock(db, lockKey, time.Minute)
	redisErr := errors.New("connection refused")

	mock.ExpectSetNX(lockKey, lock.Token(), time.Minute).SetErr(redisErr)

	err := lock.Acquire(context.Background())
	assert.ErrorIs(t, err, redisErr)
	assert.False(t, domain.IsLockHeldError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRunLock_ReleaseAfterExpiry(t *testing.T) {
	db, mock := redismock.NewClientMock()
	lock := NewRedisRunLock(db, lockKey, time.Minute)

	mock.ExpectEval(releaseScript, []string{lockKey}, lock.Token()).SetVal(int64(0))

	err := lock.Release(context.Background())
	assert.ErrorContains(t, err, "expired or was taken over")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRunLock_Refresh(t *testing.T) {
	db, mock := redismock.NewClientMock()
	lock := NewRedisRunLock(db, lockKey, time.Minute)

	mock.ExpectEval(refreshScript, []string{lockKey}, lock.Token(), int64(60000)).SetVal(int64(1))
	mock.ExpectEval(refreshScript, []string{lockKey}, lock.Token(), int64(60000)).SetVal(int64(0))

	require.NoError(t, lock.Refresh(context.Background()))
	err := lock.Refresh(context.Background())
	assert.True(t, domain.IsLockHeldError(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisRunLock_TokensAreUnique(t *testing.T) {
	db, _ := redismock.NewClientMock()
	assert.NotEqual(t, NewRedisRunLock(db, lockKey, time.Minute).Token(), NewRedisRunLock(db, lockKey, time.Minute).Token())
}
