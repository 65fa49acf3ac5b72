package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	ammkeeper "github.com/paw-chain/ammpool/x/amm/keeper"
	ammtypes "github.com/paw-chain/ammpool/x/amm/types"
	ledgerkeeper "github.com/paw-chain/ammpool/x/ledger/keeper"
	ledgertypes "github.com/paw-chain/ammpool/x/ledger/types"
)

const (
	// Name is the application and database name.
	Name = "ammpool"

	// DataDir is the directory under the home that holds the database.
	DataDir = "data"
)

// App hosts a single AMM pool together with the ledger it settles through.
//
// Every state-changing operation runs to completion under one lock against a
// cached branch of the multistore. A successful operation writes the branch
// and commits a new store version; a failed one discards it. Operations are
// therefore linearizable and a crash never exposes a half-applied operation.
type App struct {
	mu sync.Mutex

	logger log.Logger
	db     dbm.DB
	cms    storetypes.CommitMultiStore

	keys map[string]*storetypes.KVStoreKey

	invariantRoutes []invariantRoute
	opDuration      metric.Float64Histogram

	AMMKeeper    ammkeeper.Keeper
	LedgerKeeper ledgerkeeper.Keeper
}

type invariantRoute struct {
	module string
	route  string
	invar  sdk.Invariant
}

// OpenDB opens the application database under home with the given backend
// ("goleveldb", "memdb", ...).
func OpenDB(home, backend string) (dbm.DB, error) {
	return dbm.NewDB(Name, dbm.BackendType(backend), filepath.Join(home, DataDir))
}

// New mounts the module stores on db and loads the latest committed version.
func New(logger log.Logger, db dbm.DB) (*App, error) {
	keys := map[string]*storetypes.KVStoreKey{
		ammtypes.StoreKey:    storetypes.NewKVStoreKey(ammtypes.StoreKey),
		ledgertypes.StoreKey: storetypes.NewKVStoreKey(ledgertypes.StoreKey),
	}

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}

	app := &App{
		logger: logger.With("module", "app"),
		db:     db,
		cms:    cms,
		keys:   keys,

		opDuration: operationDuration(),
	}
	app.LedgerKeeper = ledgerkeeper.NewKeeper(keys[ledgertypes.StoreKey])
	app.AMMKeeper = ammkeeper.NewKeeper(keys[ammtypes.StoreKey], app.LedgerKeeper)
	ammkeeper.RegisterInvariants(app, app.AMMKeeper)

	app.logger.Debug("store loaded", "version", cms.LastCommitID().Version)
	return app, nil
}

// RegisterRoute implements sdk.InvariantRegistry.
func (app *App) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	app.invariantRoutes = append(app.invariantRoutes, invariantRoute{module: moduleName, route: route, invar: invar})
}

// Execute runs fn as one atomic operation and commits on success. The events
// fn emitted are returned so callers can report them.
func (app *App) Execute(ctx context.Context, name string, fn func(ctx sdk.Context) error) (sdk.Events, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	opID := uuid.NewString()
	ctx, span := StartOperationSpan(ctx, name, opID)
	defer span.End()

	start := time.Now()
	logger := app.logger.With("op", name, "op_id", opID)

	cache := app.cms.CacheMultiStore()
	sdkCtx := app.newContext(cache, logger).WithContext(ctx)
	if err := fn(sdkCtx); err != nil {
		RecordError(span, err)
		logger.Debug("operation rejected", "error", err)
		return nil, err
	}

	cache.Write()
	commitID := app.cms.Commit()
	app.opDuration.Record(ctx, float64(time.Since(start).Milliseconds()),
		metric.WithAttributes(attribute.String("operation", name)),
	)

	logger.Info("operation committed",
		"version", commitID.Version,
		"duration", time.Since(start).String(),
	)
	return sdkCtx.EventManager().Events(), nil
}

// Query runs fn against a throwaway branch of the latest committed state.
// Nothing fn writes is kept.
func (app *App) Query(fn func(ctx sdk.Context) error) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	return fn(app.newContext(app.cms.CacheMultiStore(), app.logger))
}

// CheckInvariants runs every registered invariant and returns the messages of
// the broken ones, sorted by route.
func (app *App) CheckInvariants() []string {
	var broken []string
	_ = app.Query(func(ctx sdk.Context) error {
		for _, r := range app.invariantRoutes {
			msg, stop := r.invar(ctx)
			if stop {
				app.logger.Error("invariant broken", "route", r.module+"/"+r.route)
				broken = append(broken, msg)
			}
		}
		return nil
	})
	sort.Strings(broken)
	return broken
}

// InvariantRoutes lists the registered invariant routes.
func (app *App) InvariantRoutes() []string {
	routes := make([]string, 0, len(app.invariantRoutes))
	for _, r := range app.invariantRoutes {
		routes = append(routes, r.module+"/"+r.route)
	}
	return routes
}

// LastCommitID returns the id of the latest committed store version.
func (app *App) LastCommitID() storetypes.CommitID {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.cms.LastCommitID()
}

// Close releases the database.
func (app *App) Close() error {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.db.Close()
}

func (app *App) newContext(ms storetypes.MultiStore, logger log.Logger) sdk.Context {
	header := cmtproto.Header{
		ChainID: Name,
		Height:  app.cms.LastCommitID().Version + 1,
		Time:    time.Now().UTC(),
	}
	return sdk.NewContext(ms, header, false, logger)
}
