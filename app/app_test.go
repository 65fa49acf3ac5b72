package app_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	cmtcrypto "github.com/cometbft/cometbft/crypto"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/paw-chain/ammpool/app"
	ammtypes "github.com/paw-chain/ammpool/x/amm/types"
)

const (
	denomA = "uatom"
	denomB = "uusdc"
)

func addr(name string) sdk.AccAddress {
	return sdk.AccAddress(cmtcrypto.AddressHash([]byte(name)))
}

type AppTestSuite struct {
	suite.Suite

	app *app.App
	ctx context.Context
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	a, err := app.New(log.NewNopLogger(), dbm.NewMemDB())
	s.Require().NoError(err)
	s.app = a
	s.ctx = context.Background()
}

func (s *AppTestSuite) fund(who sdk.AccAddress, coins ...sdk.Coin) {
	_, err := s.app.Execute(s.ctx, "fund", func(ctx sdk.Context) error {
		return s.app.LedgerKeeper.MintCoins(ctx, who, sdk.NewCoins(coins...))
	})
	s.Require().NoError(err)
}

func (s *AppTestSuite) seed(fee uint32, amountA, amountB int64) sdk.AccAddress {
	provider := addr("provider")
	s.fund(provider, sdk.NewInt64Coin(denomA, amountA), sdk.NewInt64Coin(denomB, amountB))
	_, err := s.app.Execute(s.ctx, "initialize", func(ctx sdk.Context) error {
		_, err := s.app.AMMKeeper.Initialize(ctx, addr("admin"), denomA, denomB, fee)
		return err
	})
	s.Require().NoError(err)
	_, err = s.app.Execute(s.ctx, "add_liquidity", func(ctx sdk.Context) error {
		_, err := s.app.AMMKeeper.AddLiquidity(ctx, provider, math.NewInt(amountA), math.NewInt(amountB))
		return err
	})
	s.Require().NoError(err)
	return provider
}

func (s *AppTestSuite) pool() ammtypes.Pool {
	var pool ammtypes.Pool
	s.Require().NoError(s.app.Query(func(ctx sdk.Context) error {
		var err error
		pool, err = s.app.AMMKeeper.GetPool(ctx)
		return err
	}))
	return pool
}

func (s *AppTestSuite) TestExecuteCommitsVersion() {
	before := s.app.LastCommitID().Version
	s.seed(30, 1000, 1000)
	s.Require().Equal(before+3, s.app.LastCommitID().Version)
}

func (s *AppTestSuite) TestExecuteReturnsEvents() {
	s.seed(30, 1000, 1000)
	trader := addr("trader")
	s.fund(trader, sdk.NewInt64Coin(denomA, 100))

	events, err := s.app.Execute(s.ctx, "swap", func(ctx sdk.Context) error {
		_, err := s.app.AMMKeeper.Swap(ctx, trader, denomA, math.NewInt(100), math.ZeroInt())
		return err
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(events)
	s.Require().Equal(ammtypes.EventTypeSwap, events[len(events)-1].Type)
}

func (s *AppTestSuite) TestFailedOperationDiscardsWrites() {
	s.seed(30, 1000, 1000)
	version := s.app.LastCommitID().Version
	trader := addr("trader")

	_, err := s.app.Execute(s.ctx, "fund_then_fail", func(ctx sdk.Context) error {
		if err := s.app.LedgerKeeper.MintCoins(ctx, trader, sdk.NewCoins(sdk.NewInt64Coin(denomA, 500))); err != nil {
			return err
		}
		_, err := s.app.AMMKeeper.Swap(ctx, trader, denomA, math.NewInt(100), math.NewInt(1_000))
		return err
	})
	s.Require().ErrorIs(err, ammtypes.ErrSlippageExceeded)
	s.Require().Equal(version, s.app.LastCommitID().Version)

	s.Require().NoError(s.app.Query(func(ctx sdk.Context) error {
		s.Require().True(s.app.LedgerKeeper.GetBalance(ctx, trader, denomA).IsZero())
		return nil
	}))
}

func (s *AppTestSuite) TestQueryDiscardsWrites() {
	trader := addr("trader")
	s.Require().NoError(s.app.Query(func(ctx sdk.Context) error {
		return s.app.LedgerKeeper.MintCoins(ctx, trader, sdk.NewCoins(sdk.NewInt64Coin(denomA, 5)))
	}))
	s.Require().NoError(s.app.Query(func(ctx sdk.Context) error {
		s.Require().True(s.app.LedgerKeeper.GetBalance(ctx, trader, denomA).IsZero())
		return nil
	}))
}

func (s *AppTestSuite) TestConcurrentSwapsAreLinearizable() {
	s.seed(30, 1_000_000, 1_000_000)

	const traders = 16
	for i := 0; i < traders; i++ {
		s.fund(addr(string(rune('a'+i))), sdk.NewInt64Coin(denomA, 10_000), sdk.NewInt64Coin(denomB, 10_000))
	}
	start := s.pool()

	var wg sync.WaitGroup
	errs := make(chan error, traders)
	for i := 0; i < traders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			trader := addr(string(rune('a' + i)))
			asset := denomA
			if i%2 == 1 {
				asset = denomB
			}
			_, err := s.app.Execute(s.ctx, "swap", func(ctx sdk.Context) error {
				_, err := s.app.AMMKeeper.Swap(ctx, trader, asset, math.NewInt(5_000), math.ZeroInt())
				return err
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	end := s.pool()
	s.Require().Equal(start.Version+traders, end.Version)
	s.Require().True(end.Reserves.K().GT(start.Reserves.K()))
	s.Require().Empty(s.app.CheckInvariants())

	// every unit that left a trader is in the pool and vice versa
	s.Require().NoError(s.app.Query(func(ctx sdk.Context) error {
		totalA := s.app.LedgerKeeper.GetBalance(ctx, s.app.AMMKeeper.PoolAddress(), denomA).Amount
		totalB := s.app.LedgerKeeper.GetBalance(ctx, s.app.AMMKeeper.PoolAddress(), denomB).Amount
		for i := 0; i < traders; i++ {
			trader := addr(string(rune('a' + i)))
			totalA = totalA.Add(s.app.LedgerKeeper.GetBalance(ctx, trader, denomA).Amount)
			totalB = totalB.Add(s.app.LedgerKeeper.GetBalance(ctx, trader, denomB).Amount)
		}
		s.Require().Equal(int64(1_000_000+traders*10_000), totalA.Int64())
		s.Require().Equal(int64(1_000_000+traders*10_000), totalB.Int64())
		return nil
	}))
}

func (s *AppTestSuite) TestInvariantRoutes() {
	s.Require().ElementsMatch(
		[]string{"amm/share-sum", "amm/pool-state", "amm/reserve-backing"},
		s.app.InvariantRoutes(),
	)
	s.seed(30, 1000, 1000)
	s.Require().Empty(s.app.CheckInvariants())
}

func (s *AppTestSuite) TestGenesisRoundTrip() {
	provider := s.seed(30, 1000, 4000)
	trader := addr("trader")
	s.fund(trader, sdk.NewInt64Coin(denomB, 400))
	_, err := s.app.Execute(s.ctx, "swap", func(ctx sdk.Context) error {
		_, err := s.app.AMMKeeper.Swap(ctx, trader, denomB, math.NewInt(400), math.ZeroInt())
		return err
	})
	s.Require().NoError(err)

	exported, err := s.app.ExportGenesis()
	s.Require().NoError(err)
	bz, err := json.Marshal(exported)
	s.Require().NoError(err)

	other, err := app.New(log.NewNopLogger(), dbm.NewMemDB())
	s.Require().NoError(err)
	var imported app.GenesisState
	s.Require().NoError(json.Unmarshal(bz, &imported))
	s.Require().NoError(other.InitGenesis(s.ctx, imported))
	s.Require().Empty(other.CheckInvariants())

	reexported, err := other.ExportGenesis()
	s.Require().NoError(err)
	for module, raw := range exported {
		s.Require().JSONEq(string(raw), string(reexported[module]), module)
	}

	s.Require().NoError(other.Query(func(ctx sdk.Context) error {
		s.Require().Equal(int64(1000), other.AMMKeeper.GetShareBalance(ctx, provider).Int64())
		return nil
	}))
}

func (s *AppTestSuite) TestInitGenesisRejectsUnbackedPool() {
	pool := ammtypes.NewPool(addr("admin"), denomA, denomB, 30)
	pool.Reserves = ammtypes.NewReservePair(math.NewInt(10), math.NewInt(10))
	pool.TotalShares = math.NewInt(10)
	ammGen := ammtypes.GenesisState{
		Pool:   &pool,
		Shares: []ammtypes.ShareRecord{{Provider: addr("alice").String(), Shares: math.NewInt(10)}},
	}
	genesis := app.NewDefaultGenesisState()
	bz, err := json.Marshal(ammGen)
	s.Require().NoError(err)
	genesis[ammtypes.ModuleName] = bz

	err = s.app.InitGenesis(s.ctx, genesis)
	s.Require().ErrorIs(err, ammtypes.ErrInvariantViolation)
	s.Require().NoError(s.app.Query(func(ctx sdk.Context) error {
		s.Require().False(s.app.AMMKeeper.HasPool(ctx))
		return nil
	}))
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	home := t.TempDir()

	db, err := app.OpenDB(home, string(dbm.GoLevelDBBackend))
	require.NoError(t, err)
	a, err := app.New(log.NewNopLogger(), db)
	require.NoError(t, err)

	provider := addr("provider")
	_, err = a.Execute(context.Background(), "setup", func(ctx sdk.Context) error {
		if err := a.LedgerKeeper.MintCoins(ctx, provider, sdk.NewCoins(sdk.NewInt64Coin(denomA, 700), sdk.NewInt64Coin(denomB, 900))); err != nil {
			return err
		}
		if _, err := a.AMMKeeper.Initialize(ctx, addr("admin"), denomA, denomB, 30); err != nil {
			return err
		}
		_, err := a.AMMKeeper.AddLiquidity(ctx, provider, math.NewInt(700), math.NewInt(900))
		return err
	})
	require.NoError(t, err)
	version := a.LastCommitID().Version
	require.NoError(t, a.Close())

	db, err = app.OpenDB(home, string(dbm.GoLevelDBBackend))
	require.NoError(t, err)
	reopened, err := app.New(log.NewNopLogger(), db)
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, version, reopened.LastCommitID().Version)
	require.NoError(t, reopened.Query(func(ctx sdk.Context) error {
		reserveA, reserveB, err := reopened.AMMKeeper.GetReserves(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(700), reserveA.Int64())
		require.Equal(t, int64(900), reserveB.Int64())
		require.Equal(t, int64(700), reopened.AMMKeeper.GetShareBalance(ctx, provider).Int64())
		return nil
	}))
}
