// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/rentnet/rentnet/api/utils/rotatewriter"
	"github.com/rentnet/rentnet/chain"
	"github.com/rentnet/rentnet/genesis"
	"github.com/rentnet/rentnet/log"
	"github.com/rentnet/rentnet/logdb"
	"github.com/rentnet/rentnet/lvldb"
	"github.com/rentnet/rentnet/rentnet"
	"github.com/rentnet/rentnet/state"
)

// initLogger installs the root handler. The returned level can be changed
// at runtime through the admin server.
func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	verbosity, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return nil, err
	}
	level := new(slog.LevelVar)
	level.Set(log.FromLegacyLevel(verbosity))

	output := os.Stderr
	useColor := (isatty.IsTerminal(output.Fd()) || isatty.IsCygwinTerminal(output.Fd())) && os.Getenv("TERM") != "dumb"
	log.SetDefault(log.NewLeveledHandler(output, level, ctx.Bool(jsonLogsFlag.Name), useColor))
	return level, nil
}

func selectGenesis(ctx *cli.Context) *genesis.Genesis {
	network := ctx.String(networkFlag.Name)
	if network == "" || network == "devnet" {
		return genesis.NewDevnet()
	}

	gen, err := genesis.LoadCustomGenesis(network)
	if err != nil {
		fatal(fmt.Sprintf("load genesis file [%v]: %v", network, err))
	}
	gene, err := genesis.NewCustomNet(gen)
	if err != nil {
		fatal(fmt.Sprintf("build genesis: %v", err))
	}
	return gene
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := makeDataDir(ctx)

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(ctx *cli.Context, dir string) *lvldb.LevelDB {
	cacheMB, err := readIntFromUInt64Flag(ctx.Uint64(cacheFlag.Name))
	if err != nil {
		fatal("invalid cache flag:", err)
	}
	cacheMB = normalizeCacheSize(cacheMB)
	logger.Debug("cache size(MB)", "size", cacheMB)

	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open chain database [%v]: %v", path, err))
	}
	return db
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		total := int(mem.Total / 1024 / 1024)
		limit := total / 2
		if sizeMB > limit {
			sizeMB = limit
			logger.Warn("cache size(MB) limited", "limit", limit)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func openLogDB(dir string) *logdb.LogDB {
	path := filepath.Join(dir, "logs.db")
	db, err := logdb.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", path, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open chain database: %v", err))
	}
	return db
}

func openMemLogDB() *logdb.LogDB {
	db, err := logdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open log database: %v", err))
	}
	return db
}

// initChain opens the repository, writing the genesis block and its events
// on first start. logDB may be nil.
func initChain(gene *genesis.Genesis, mainDB *lvldb.LevelDB, logDB *logdb.LogDB) *chain.Repository {
	genesisBlock, genesisStage, genesisEvents, err := gene.Build(state.NewStater(mainDB))
	if err != nil {
		fatal("build genesis block: ", err)
	}

	repo, err := chain.NewRepository(mainDB, genesisBlock, genesisStage)
	if err != nil {
		fatal("initialize block chain:", err)
	}

	if logDB != nil && repo.BestBlock().Number() == 0 {
		if err := logDB.Prepare(genesisBlock.Header()).
			ForAction(rentnet.Bytes32{}).
			Insert(genesisEvents).
			Commit(); err != nil {
			fatal("write genesis events: ", err)
		}
	}
	return repo
}

func loadMasterKey(ctx *cli.Context, gene *genesis.Genesis, instanceDir string) *ecdsa.PrivateKey {
	path := ctx.String(masterKeyFlag.Name)
	if path == "" {
		if gene.ID() == genesis.NewDevnet().ID() {
			return genesis.DevAccounts()[0].PrivateKey
		}
		if !ctx.Bool(persistFlag.Name) {
			fatal(fmt.Sprintf("-%s is required by custom networks in memory", masterKeyFlag.Name))
		}
		path = filepath.Join(instanceDir, "master.key")
	}
	key, err := loadOrGeneratePrivateKey(path)
	if err != nil {
		fatal("load or generate master key:", err)
	}
	return key
}

// openRequestLogger returns a logger writing API requests to rotated files
// in dir. A nil logger is returned when dir is empty.
func openRequestLogger(dir string) (log.Logger, func(), error) {
	if dir == "" {
		return nil, func() {}, nil
	}
	writer, err := rotatewriter.New(
		rotatewriter.WithDir(dir),
		rotatewriter.WithFileBaseName("api"),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "api logs")
	}
	if err := writer.Start(); err != nil {
		return nil, nil, errors.Wrap(err, "api logs")
	}
	return log.New(log.NewHandler(writer, log.LvlInfo, true, false), "pkg", "api"), func() {
		if err := writer.Close(); err != nil {
			logger.Warn("failed to close api logs", "err", err)
		}
	}, nil
}

func printStartupMessage(
	gene *genesis.Genesis,
	repo *chain.Repository,
	master rentnet.Address,
	instanceDir string,
	apiURL string,
) {
	best := repo.BestBlock()

	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Best block   [ %v #%v @%v ]
    Master       [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
`,
		"Rentnet "+fullVersion(),
		gene.ID(), gene.Name(),
		best.ID(), best.Number(), time.Unix(int64(best.Timestamp()), 0),
		master,
		instanceDir,
		apiURL)
}
