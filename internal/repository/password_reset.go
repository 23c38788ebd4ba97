package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"churchdir/internal/logger"
	"churchdir/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const resetKeyPrefix = "pwreset:"

// ResetStateRepository хранит состояние сброса пароля в Redis-хеше pwreset:<accountID>.
// TTL ключа нужен только для уборки мусора, истечение OTP и окна проверяется по timestamp.
type ResetStateRepository struct {
	rdb *redis.Client
}

func NewResetStateRepository(rdb *redis.Client) *ResetStateRepository {
	return &ResetStateRepository{rdb: rdb}
}

func resetKey(accountID string) string {
	return resetKeyPrefix + accountID
}

func (r *ResetStateRepository) Get(ctx context.Context, accountID string) (*models.ResetState, error) {
	vals, err := r.rdb.HGetAll(ctx, resetKey(accountID)).Result()
	if err != nil {
		logger.Log.Error("Ошибка чтения состояния сброса (repo)", zap.Error(err), zap.String("account_id", accountID))
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrNotFound
	}

	st := &models.ResetState{AccountID: accountID, OTPHash: vals["otp_hash"]}
	if st.OTPExpiry, err = parseMillis(vals["otp_expiry"]); err != nil {
		return nil, fmt.Errorf("otp_expiry: %w", err)
	}
	if st.LastAttempt, err = parseMillis(vals["last_attempt"]); err != nil {
		return nil, fmt.Errorf("last_attempt: %w", err)
	}
	if raw := vals["attempts"]; raw != "" {
		if st.Attempts, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("attempts: %w", err)
		}
	}
	return st, nil
}

// Save перезаписывает состояние целиком одной транзакцией MULTI/EXEC.
func (r *ResetStateRepository) Save(ctx context.Context, st *models.ResetState, ttl time.Duration) error {
	key := resetKey(st.AccountID)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"otp_hash", st.OTPHash,
			"otp_expiry", formatMillis(st.OTPExpiry),
			"attempts", st.Attempts,
			"last_attempt", formatMillis(st.LastAttempt),
		)
		pipe.PExpire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		logger.Log.Error("Ошибка сохранения состояния сброса (repo)", zap.Error(err), zap.String("account_id", st.AccountID))
	}
	return err
}

func (r *ResetStateRepository) Delete(ctx context.Context, accountID string) error {
	return r.rdb.Del(ctx, resetKey(accountID)).Err()
}

func formatMillis(t time.Time) string {
	if t.IsZero() {
		return "0"
	}
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func parseMillis(raw string) (time.Time, error) {
	if raw == "" || raw == "0" {
		return time.Time{}, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
