// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/rentnet/rentnet/actionpool"
	"github.com/rentnet/rentnet/api"
	"github.com/rentnet/rentnet/api/admin"
	"github.com/rentnet/rentnet/api/admin/health"
	"github.com/rentnet/rentnet/api/node"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/logdb"
	"github.com/rentnet/rentnet/lvldb"
	"github.com/rentnet/rentnet/metrics"
	"github.com/rentnet/rentnet/packer"
)

var (
	version       string
	gitCommit     string
	gitTag        string
	copyrightYear string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Rentnet",
		Usage:     "GPU rental chain with committee verification and slash settlement",
		Copyright: fmt.Sprintf("2025-%s The Rentnet developers", copyrightYear),
		Flags: []cli.Flag{
			networkFlag,
			dataDirFlag,
			persistFlag,
			cacheFlag,
			masterKeyFlag,
			blockIntervalFlag,
			skipLogsFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiBacktraceLimitFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			apiLogsDirFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			pprofFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			disableNTPCheckFlag,
		},
		Action: soloAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel, err := initLogger(ctx)
	if err != nil {
		return errors.Wrap(err, "init logger")
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return fmt.Errorf("unable to start metrics server - %w", err)
		}
		logger.Info("metrics server started", "url", url)
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
	}

	blockInterval := ctx.Uint64(blockIntervalFlag.Name)
	if blockInterval == 0 {
		return errors.New("block-interval must be positive")
	}

	gene := selectGenesis(ctx)
	skipLogs := ctx.Bool(skipLogsFlag.Name)

	var (
		mainDB      *lvldb.LevelDB
		logDB       *logdb.LogDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx, gene)
		mainDB = openMainDB(ctx, instanceDir)
		if !skipLogs {
			logDB = openLogDB(instanceDir)
		}
	} else {
		instanceDir = "Memory"
		mainDB = openMemMainDB()
		if !skipLogs {
			logDB = openMemLogDB()
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	if logDB != nil {
		defer func() { logger.Info("closing log database..."); logDB.Close() }()
	}

	repo := initChain(gene, mainDB, logDB)
	defer func() { logger.Info("closing repository..."); repo.Close() }()

	masterKey := loadMasterKey(ctx, gene, instanceDir)
	pk := packer.New(repo, logDB, masterKey)

	pool := actionpool.New(repo, actionpool.DefaultOptions)
	defer func() { logger.Info("closing action pool..."); pool.Close() }()

	backtraceLimit, err := readIntFromUInt64Flag(ctx.Uint64(apiBacktraceLimitFlag.Name))
	if err != nil || backtraceLimit > int(^uint32(0)) {
		return errors.New("api-backtrace-limit out of range")
	}
	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	reqLogger, closeReqLogger, err := openRequestLogger(ctx.String(apiLogsDirFlag.Name))
	if err != nil {
		return err
	}
	defer closeReqLogger()

	apiHandler, apiCloser := api.New(repo, pool, logDB, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		BacktraceLimit:       uint32(backtraceLimit),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		SkipLogs:             skipLogs,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      apiLogs,
		RequestLogger:        reqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
		NodeInfo: node.Info{
			Version: fullVersion(),
			Master:  pk.Master(),
		},
	})
	defer func() { logger.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser, err := startAPIServer(ctx.String(apiAddrFlag.Name), apiHandler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	healthAPI := health.New(exitSignal, repo, time.Duration(blockInterval)*time.Second)
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := startAdminServer(ctx.String(adminAddrFlag.Name), admin.New(logLevel, apiLogs, healthAPI))
		if err != nil {
			return fmt.Errorf("unable to start admin server - %w", err)
		}
		logger.Info("admin server started", "url", url)
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
	}

	printStartupMessage(gene, repo, pk.Master(), instanceDir, apiURL)

	solo := newSolo(repo, pk, masterKey, pool, blockInterval, healthAPI.PackingStatus)

	group, groupCtx := errgroup.WithContext(exitSignal)
	group.Go(func() error {
		return solo.Run(groupCtx)
	})
	if !ctx.Bool(disableNTPCheckFlag.Name) {
		group.Go(func() error {
			clockCheckLoop(groupCtx, blockInterval)
			return nil
		})
	}
	return group.Wait()
}
