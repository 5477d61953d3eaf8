package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brettbedarf/memfs"
	"github.com/brettbedarf/memfs/config"
	"github.com/brettbedarf/memfs/filesystem"
	"github.com/brettbedarf/memfs/internal/util"
)

func main() {
	// Parse command line arguments
	var (
		verbose    int
		nodesDef   string
		configPath string
	)
	flag.StringVar(&nodesDef, "nodes", "", "Path to nodes def file")
	flag.StringVar(&nodesDef, "n", "", "--nodes (shorthand)")
	flag.StringVar(&configPath, "config", "", "Path to config override file (yaml or json)")
	flag.StringVar(&configPath, "c", "", "--config (shorthand)")
	flag.IntVar(&verbose, "verbose", 3, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flag.IntVar(&verbose, "v", 3, "--verbose (shorthand)")
	flag.Parse()

	// Initialize logger
	if verbose < 1 {
		verbose = 1
	}
	if verbose > 5 {
		verbose = 5
	}
	logLvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	logLvl := logLvls[verbose-1]
	util.InitializeLogger(logLvl)
	logger := util.GetLogger("main")

	logger.Info().Int("verbose", verbose).Str("nodes", nodesDef).Msg("memfs initializing")

	// Init the fs
	cfg := config.NewConfig(&config.ConfigOverride{
		LogLvl: &logLvl,
	})
	if configPath != "" {
		override, err := config.LoadConfigOverrideFile(configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("config", configPath).Msg("Failed to load config file")
		}
		cfg.Merge(override)
	}

	fs := filesystem.NewFS(cfg)
	defer fs.Close()

	// Log every flushed change batch
	sub := fs.Subscribe()
	defer sub.Dispose()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for batch := range sub.C {
			for _, ev := range batch {
				logger.Info().Str("kind", ev.Kind.String()).Str("path", ev.Path).Msg("Change event")
			}
			logger.Info().Int("events", len(batch)).Msg("Batch flushed")
		}
	}()

	// Load seed definitions
	if nodesDef != "" {
		defData, err := os.ReadFile(nodesDef)
		if err != nil {
			logger.Fatal().Err(err).Str("nodes", nodesDef).Msg("Failed to read nodes file")
		}
		var rawNodes []json.RawMessage
		if err := json.Unmarshal(defData, &rawNodes); err != nil {
			logger.Fatal().Err(err).Msg("Failed to unmarshal nodes")
		}

		var fileSeeds []*memfs.FileSeedRequest
		var dirSeeds []*memfs.DirSeedRequest

		for _, rawNode := range rawNodes {
			nodeType, err := memfs.GetNodeType(rawNode)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to get node type")
				continue
			}

			switch nodeType {
			case memfs.FileNodeType:
				fileReq, err := memfs.UnmarshalFileSeed(rawNode)
				if err != nil {
					logger.Error().Err(err).Msg("Failed to unmarshal file seed")
					continue
				}
				fileSeeds = append(fileSeeds, fileReq)
				logger.Debug().Str("path", fileReq.Path).Msg("Processed file seed")

			case memfs.DirNodeType:
				dirReq, err := memfs.UnmarshalDirSeed(rawNode)
				if err != nil {
					logger.Error().Err(err).Msg("Failed to unmarshal directory seed")
					continue
				}
				dirSeeds = append(dirSeeds, dirReq)
				logger.Debug().Str("path", dirReq.Path).Msg("Processed directory seed")

			default:
				logger.Warn().Str("type", string(nodeType)).Msg("Unknown node type")
			}
		}

		// Directories first so file parents exist
		dirAddCnt := 0
		for _, req := range dirSeeds {
			if err := fs.AddDirSeed(req); err != nil {
				logger.Debug().Err(err).Str("path", req.Path).Msg("Failed to add directory seed")
				continue
			}
			dirAddCnt++
		}
		fileAddCnt := 0
		for _, req := range fileSeeds {
			if err := fs.AddFileSeed(req); err != nil {
				logger.Debug().Err(err).Str("path", req.Path).Msg("Failed to add file seed")
				continue
			}
			fileAddCnt++
		}
		logger.Info().Int("directories", dirAddCnt).Int("files", fileAddCnt).Msg("Seeded filesystem")
	} else {
		logger.Warn().Msg("No nodes file provided")
	}

	// Give the notifier a chance to flush the seeding batch
	time.Sleep(4 * cfg.NotifyDelay)

	// Print the resulting tree
	err := fs.Walk("/", func(path string, md memfs.Metadata) {
		fmt.Printf("%-9s %6d  %s\n", md.Kind, md.Size, path)
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to walk tree")
	}

	sub.Dispose()
	<-done
}
