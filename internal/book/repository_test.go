package book

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JackRW23/xva-desk-simulator/internal/xva"
	"github.com/JackRW23/xva-desk-simulator/pkg/config"
	"github.com/JackRW23/xva-desk-simulator/pkg/database"
)

func sampleSet(name string) *NettingSet {
	return &NettingSet{
		Counterparty: xva.Counterparty{Name: name, HazardRate: 0.02, RecoveryRate: 0.4},
		Trades: []xva.TradeSpec{
			{Kind: "swap", Notional: 1_000_000, Direction: "receiver"},
			{Kind: "option", Notional: 250_000, Maturity: 0.5, Strike: xva.Strike(1.1)},
			{Kind: "option", Notional: 100_000, Strike: xva.Strike(0)},
			{Kind: "option", Notional: 50_000},
		},
	}
}

func TestNettingSet_Params(t *testing.T) {
	template := xva.Params{Spot: 1, Volatility: 0.2, Horizon: 1, Steps: 20, Paths: 100}
	set := sampleSet("SocGen")

	params := set.Params(template)
	assert.Equal(t, "SocGen", params.Counterparty.Name)
	assert.Equal(t, set.Trades, params.Trades)
	assert.Equal(t, 20, params.Steps)
	assert.Empty(t, template.Trades)

	// 복사본이므로 원본 변경 없음
	params.Trades[0].Notional = 1
	assert.Equal(t, 1_000_000.0, set.Trades[0].Notional)
}

func TestNettingSet_Validate(t *testing.T) {
	set := sampleSet("SocGen")
	require.NoError(t, set.Validate(1))

	set.Counterparty.RecoveryRate = -0.1
	assert.True(t, errors.Is(set.Validate(1), xva.ErrInvalidParameter))

	set = sampleSet("SocGen")
	set.Trades[1].Notional = 0
	assert.True(t, errors.Is(set.Validate(1), xva.ErrInvalidParameter))
}

func TestRepository_SaveRejectsInvalidBeforeQuery(t *testing.T) {
	// pool 없이도 검증 단계에서 반환
	repo := NewRepository(nil)
	set := sampleSet("SocGen")
	set.Counterparty.HazardRate = -1

	err := repo.SaveNettingSet(context.Background(), set, 1)
	assert.True(t, errors.Is(err, xva.ErrInvalidParameter))
}

// ═══════════════════════════════════════════════════════════
// Integration (requires DATABASE_URL)
// ═══════════════════════════════════════════════════════════

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := database.New(context.Background(), config.DatabaseConfig{
		URL:             os.Getenv("DATABASE_URL"),
		MaxConns:        2,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	repo := NewRepository(db.Pool)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestRepository_RoundTrip(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	name := "test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _ = repo.DeleteNettingSet(context.Background(), name) })

	require.NoError(t, repo.SaveNettingSet(ctx, sampleSet(name), 1))

	loaded, err := repo.LoadNettingSet(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, sampleSet(name), loaded)

	// 두 번째 저장은 거래를 교체
	replacement := sampleSet(name)
	replacement.Trades = replacement.Trades[:1]
	require.NoError(t, repo.SaveNettingSet(ctx, replacement, 1))

	loaded, err = repo.LoadNettingSet(ctx, name)
	require.NoError(t, err)
	assert.Len(t, loaded.Trades, 1)

	summaries, err := repo.ListNettingSets(ctx)
	require.NoError(t, err)
	var found bool
	for _, s := range summaries {
		if s.Name == name {
			found = true
			assert.Equal(t, 1, s.TradeCount)
		}
	}
	assert.True(t, found)
}

func TestRepository_LoadMissing(t *testing.T) {
	repo := setupRepository(t)

	_, err := repo.LoadNettingSet(context.Background(), "does-not-exist-"+time.Now().String())
	assert.True(t, errors.Is(err, ErrNotFound))
}
