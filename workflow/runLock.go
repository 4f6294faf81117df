package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"gorm.io/gorm"
)

const commissionSyncLockName = "commission-status-sync"

var ErrCommissionSyncLocked = errors.New("commission status sync is already running")

// WithCommissionSyncLock runs fn while holding the cross-host run lock.
// With a redislock client the lock lives in Redis (TTL ttl). Without one it falls back to a
// MySQL advisory lock pinned to a single pooled connection.
// Returns ErrCommissionSyncLocked without calling fn when another run holds the lock.
func WithCommissionSyncLock(ctx context.Context, db *gorm.DB, locker *redislock.Client, ttl time.Duration, fn func(ctx context.Context) error) error {
	if locker != nil {
		lock, err := locker.Obtain(ctx, commissionSyncLockName, ttl, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			return ErrCommissionSyncLocked
		}
		if err != nil {
			return fmt.Errorf("obtain redis lock %q: %w", commissionSyncLockName, err)
		}
		defer lock.Release(context.Background())
		return fn(ctx)
	}

	if db == nil {
		return fn(ctx)
	}
	// GET_LOCK is connection-scoped, so acquire and release on the same connection.
	return db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := AcquireMySQLNamedLock(conn, commissionSyncLockName); err != nil {
			return err
		}
		defer ReleaseMySQLNamedLock(conn, commissionSyncLockName)
		return fn(ctx)
	})
}

// AcquireMySQLNamedLock takes a MySQL advisory lock without waiting.
func AcquireMySQLNamedLock(conn *gorm.DB, lockName string) error {
	var ok *int
	if err := conn.Raw("SELECT GET_LOCK(?, 0)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok == nil || *ok != 1 {
		return ErrCommissionSyncLocked
	}
	return nil
}

func ReleaseMySQLNamedLock(conn *gorm.DB, lockName string) {
	var _ok *int
	_ = conn.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
