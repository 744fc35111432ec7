package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"subclip"
	"subclip/async"
	"subclip/cache"
	"subclip/internal/boltkv"
	"subclip/profile"
	"subclip/share"
	"subclip/store"
	"subclip/store/files"
	"subclip/strategies"
)

type config struct {
	TargetDir      string `envconfig:"TARGET_DIR" default:"."`
	DatabasePath   string `envconfig:"DATABASE_PATH"`
	ResolverAPIKey string `envconfig:"RESOLVER_API_KEY"`
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	zap.RedirectStdLog(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = subclip.WithLogger(ctx, logger)

	var cfg config
	if err := envconfig.Process("subclip", &cfg); err != nil {
		logger.Fatal(err.Error())
	}

	app := &cli.App{
		Name:  "subclip-fetch",
		Usage: "fetch Instagram videos and profile pictures to local files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "target",
				Usage: "save fetched media to `DIR`",
			},
		},
		Action: func(c *cli.Context) error {
			if target := c.String("target"); target != "" {
				cfg.TargetDir = target
			}
			for _, source := range c.Args().Slice() {
				if err := fetch(ctx, source, cfg); err != nil {
					return err
				}
			}
			return nil
		},
		HideHelpCommand: true,
	}

	result := async.Run(func() error { return app.Run(os.Args) })

	select {
	case err = <-result:
		if err != nil {
			logger.Fatal(err.Error())
		}
	case <-ctx.Done():
		logger.Error(ctx.Err().Error())
		stop()
	}
}

func fetch(ctx context.Context, source string, cfg config) error {
	logger := subclip.Logger(ctx).Sugar()
	logger.Infof("Fetching %s into %s", source, cfg.TargetDir)

	fileStore, err := files.NewLocal(cfg.TargetDir)
	if err != nil {
		return fmt.Errorf("open file store: %w", err)
	}

	dbPath := cfg.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(cfg.TargetDir, "subclip.db")
	}
	db, err := boltkv.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	settings := store.NewSettings(db)
	if cfg.ResolverAPIKey != "" {
		if err := settings.SetResolverAPIKey(cfg.ResolverAPIKey); err != nil {
			return fmt.Errorf("store resolver key: %w", err)
		}
	}

	client := http.DefaultClient
	acquirer := subclip.NewAcquirer(subclip.AcquirerConfig{
		Registry:     strategies.NewRegistry(strategies.Network(client, settings)),
		Materializer: subclip.NewMaterializer(fileStore, client, nil),
		Cache:        cache.New(db),
		Profile:      profile.NewFetcher(profile.Config{Client: client}),
	})

	bar := progressbar.NewOptions(100, progressbar.OptionSetDescription("starting"))
	result, err := acquirer.Acquire(ctx, source, func(p subclip.Progress) {
		if p.Message != "" {
			bar.Describe(fmt.Sprintf("%s: %s", p.Stage, p.Message))
		} else {
			bar.Describe(string(p.Stage))
		}
		if p.Percent > 0 {
			_ = bar.Set(p.Percent)
		}
	})
	_ = bar.Finish()
	fmt.Println()
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	logger.Infof("Fetched %s (%d bytes, %s)", result.FileName, result.ByteSize, result.Resolution)
	return share.NewLogSheet().Share(ctx, result.LocalFileURI, mimeTypeFor(result.FileName))
}

func mimeTypeFor(fileName string) string {
	switch {
	case strings.HasSuffix(fileName, ".webm"):
		return "video/webm"
	case strings.HasSuffix(fileName, ".jpg"), strings.HasSuffix(fileName, ".jpeg"):
		return "image/jpeg"
	default:
		return "video/mp4"
	}
}
