package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/wardenbot/warden/internal/adapters/discord"
	"github.com/wardenbot/warden/internal/adapters/oauth"
	"github.com/wardenbot/warden/internal/app/service"
	"github.com/wardenbot/warden/internal/command"
	"github.com/wardenbot/warden/internal/httpapi"
	"github.com/wardenbot/warden/internal/infra/config"
	"github.com/wardenbot/warden/internal/infra/storage"
	"github.com/wardenbot/warden/internal/plugin"
	"github.com/wardenbot/warden/internal/plugin/info"
	"github.com/wardenbot/warden/internal/plugin/moderation"
	"github.com/wardenbot/warden/internal/plugin/util"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuration", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("opening database", "err", err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		logger.Fatal("migrating database", "err", err)
	}
	logger.Info("database ready")

	caseRepo := storage.NewCaseRepo(db)
	guildRepo := storage.NewGuildRepo(db)
	tokenRepo := storage.NewTokenRepo(db)

	moderationSvc := service.NewModerationService(caseRepo)
	guildSvc := service.NewGuildService(guildRepo)
	authSvc := service.NewAuthService(tokenRepo, oauth.NewClient(cfg.ClientID, cfg.ClientSecret, cfg.RedirectURI))

	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		logger.Fatal("discord session", "err", err)
	}

	registry := command.NewRegistry()
	registrar := plugin.NewRegistrar(registry)

	filter := discord.NewFilter(cfg.AllowedGuilds, logger)
	icons := discord.NewIconCache(cfg.IconGuildID)

	registrar.Register(info.New(icons))
	registrar.Register(util.New())
	registrar.Register(moderation.New(moderationSvc, icons))

	prefixEngine := discord.NewPrefixEngine(session, registry, cfg.CommandPrefix, logger)
	slashEngine := discord.NewSlashEngine(session, registry, logger)

	prefixEngine.Install(filter)
	slashEngine.Install(filter)
	icons.Install(session, filter)

	if err := session.Open(); err != nil {
		logger.Fatal("gateway connect", "err", err)
	}
	defer session.Close()
	logger.Info("connected", "user", session.State.User.Username, "id", session.State.User.ID)

	if err := registrar.Apply(session); err != nil {
		logger.Fatal("applying plugins", "err", err)
	}
	if err := slashEngine.SyncCommands(session.State.User.ID); err != nil {
		logger.Fatal("syncing application commands", "err", err)
	}

	discord.NewGuildSync(guildSvc, logger).Install(session, filter)

	api := httpapi.New(authSvc, guildSvc, moderationSvc, cfg.StaticDir, logger)
	server := &http.Server{Addr: cfg.HTTPAddr, Handler: api.Handler()}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		return prefixEngine.Run(ctx)
	})

	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Fatal("shutdown", "err", err)
	}
}
