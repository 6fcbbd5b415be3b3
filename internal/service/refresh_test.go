package service

import (
	"context"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victorgmp/SGPC-auth/internal/apperr"
)

var hexToken = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestRefreshTokenService_GenerateAndGet(t *testing.T) {
	t.Parallel()

	svc := NewRefreshTokenService(newTestRepo(t))
	ctx := context.Background()

	tok, err := svc.GenerateRefreshToken(ctx, "alice")
	require.NoError(t, err)
	assert.Regexp(t, hexToken, tok)

	got, err := svc.GetByUserIDAndToken(ctx, "alice", tok)
	require.NoError(t, err)
	assert.Equal(t, tok, got)

	_, err = svc.GetByUserIDAndToken(ctx, "bob", tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestRefreshTokenService_Delete(t *testing.T) {
	t.Parallel()

	svc := NewRefreshTokenService(newTestRepo(t))
	ctx := context.Background()

	tok, err := svc.GenerateRefreshToken(ctx, "alice")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByUserIDAndToken(ctx, "alice", tok))

	_, err = svc.GetByUserIDAndToken(ctx, "alice", tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	err = svc.DeleteByUserIDAndToken(ctx, "alice", tok)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}

func TestRefreshTokenService_Redeem_SingleUse(t *testing.T) {
	t.Parallel()

	svc := NewRefreshTokenService(newTestRepo(t))
	ctx := context.Background()

	r1, err := svc.GenerateRefreshToken(ctx, "alice")
	require.NoError(t, err)

	r2, err := svc.Redeem(ctx, "alice", r1)
	require.NoError(t, err)
	assert.NotEqual(t, r1, r2)
	assert.Regexp(t, hexToken, r2)

	_, err = svc.Redeem(ctx, "alice", r1)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	r3, err := svc.Redeem(ctx, "alice", r2)
	require.NoError(t, err)
	assert.NotEqual(t, r2, r3)
}

func TestRefreshTokenService_Redeem_WrongUser(t *testing.T) {
	t.Parallel()

	svc := NewRefreshTokenService(newTestRepo(t))
	ctx := context.Background()

	tok, err := svc.GenerateRefreshToken(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, "bob", tok)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	// The failed attempt did not spend alice's token.
	_, err = svc.Redeem(ctx, "alice", tok)
	require.NoError(t, err)
}

func TestRefreshTokenService_Redeem_Concurrent(t *testing.T) {
	t.Parallel()

	svc := NewRefreshTokenService(newTestRepo(t))
	ctx := context.Background()

	tok, err := svc.GenerateRefreshToken(ctx, "alice")
	require.NoError(t, err)

	var (
		wins atomic.Int32
		wg   sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Redeem(ctx, "alice", tok); err == nil {
				wins.Add(1)
			} else {
				assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}
