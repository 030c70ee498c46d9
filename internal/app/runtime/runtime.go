// Package runtime arma el bot completo a partir de la configuración y lo
// mantiene corriendo hasta que se detiene.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"chatBot/internal/app"
	"chatBot/internal/app/events"
	ttsruntime "chatBot/internal/app/tts/runner"
	"chatBot/internal/domain"
	"chatBot/internal/infrastructure/config"
	"chatBot/internal/infrastructure/dictionary"
	"chatBot/internal/infrastructure/discord"
	"chatBot/internal/infrastructure/persistence/jsonfile"
	sqlitestorage "chatBot/internal/infrastructure/persistence/sqlite"
	twitchinfra "chatBot/internal/infrastructure/platform/twitch"
	"chatBot/internal/infrastructure/telemetry"
	"chatBot/internal/interface/adapters/streamerbot"
	twitchadapter "chatBot/internal/interface/adapters/twitch"
	ws "chatBot/internal/interface/api/ws"
	"chatBot/internal/interface/outs"
	"chatBot/internal/usecase/commands"
	"chatBot/internal/usecase/corpus"
	credentialsusecase "chatBot/internal/usecase/credentials"
	"chatBot/internal/usecase/filler"
	"chatBot/internal/usecase/handle_message"
	"chatBot/internal/usecase/notifications"
	ttsusecase "chatBot/internal/usecase/tts"
)

const (
	commandPrefix   = "!"
	refreshInterval = 1 * time.Hour
)

type Runtime struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config

	closers   []func() error
	platform  *app.PlatformManager
	wsServer  *ws.Server
	asyncOut  *outs.AsyncSender
	bus       *events.Bus
	ttsRunner *ttsruntime.Runner
	wg        sync.WaitGroup
	started   bool
}

// storage agrupa los repositorios del backend elegido. notifications queda nil
// con jsonfile: los eventos sólo se registran en el log.
type storage struct {
	commands      domain.CommandRepository
	corpus        domain.CorpusRepository
	notifications domain.NotificationRepository
	close         func() error
}

func openStorage(cfg *config.Config) (*storage, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendSQLite:
		store, err := sqlitestorage.NewStore(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return &storage{
			commands:      store,
			corpus:        store,
			notifications: store,
			close:         store.Close,
		}, nil
	default:
		store, err := jsonfile.NewStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		return &storage{
			commands: store,
			corpus:   store,
			close:    func() error { return nil },
		}, nil
	}
}

func Start(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		return nil, errors.New("runtime: config nil")
	}
	runtimeCtx, cancel := context.WithCancel(ctx)

	telemetry.Init()

	store, err := openStorage(cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("runtime: storage: %w", err)
	}

	run := &Runtime{
		ctx:     runtimeCtx,
		cancel:  cancel,
		cfg:     cfg,
		closers: []func() error{store.close},
		bus:     events.NewBus(),
	}

	twitch, broadcasterID := run.startTwitchLookup(runtimeCtx)

	lines := corpus.NewStore(store.corpus)
	commandStore := commands.NewStore(store.commands)

	multiOut := outs.NewMultiSender()
	run.asyncOut = outs.NewAsyncSender(multiOut, run.bus)

	ttsService := ttsusecase.NewService(ttsusecase.Config{
		Enabled: cfg.TTSEnabled,
		Voice:   cfg.TTSVoice,
	})
	run.ttsRunner = ttsruntime.New(ttsruntime.Config{
		Synth:  ttsService,
		Player: ttsruntime.NewSpeakerPlayer(),
		Bus:    run.bus,
	})
	ttsService.SetQueue(run.ttsRunner)

	resolver := commands.NewResolver(commandPrefix, commandStore)
	registerBuiltins(resolver, builtinDeps{
		cfg:           cfg,
		lines:         lines,
		commands:      commandStore,
		twitch:        twitch,
		broadcasterID: broadcasterID,
	})

	interactor := handle_message.NewInteractor(handle_message.Config{
		Resolver:  resolver,
		Shoutouts: commands.NewAutoShoutout(lines, twitch),
		Limiter: filler.NewLimiter(filler.Config{
			CountThreshold: cfg.FillerMessageCount,
			TimeThreshold:  cfg.FillerInterval,
			ExcludedUsers:  cfg.FillerExcludedUsers,
		}),
		Responder: filler.NewResponder(lines, run.asyncOut),
		Out:       run.asyncOut,
		Bus:       run.bus,
	})

	eventLogger := notifications.NewEventLogger(store.notifications, ttsService, run.bus)

	run.platform = app.NewPlatformManager(app.ManagerConfig{
		Context:  runtimeCtx,
		MultiOut: multiOut,
	})
	run.platform.SetHandler(interactor.Handle)
	run.platform.SetNotificationHandler(eventLogger.Handle)

	run.wsServer = ws.NewServer(ws.Config{
		Addr:          cfg.HTTPAddr,
		Bus:           run.bus,
		Commands:      commands.NewService(resolver, commandStore),
		Notifications: store.notifications,
		TTS:           run.ttsRunner,
	})
	run.wsServer.SetHandler(interactor.Handle)

	run.ttsRunner.Start(runtimeCtx)

	run.wg.Add(1)
	go func() {
		defer run.wg.Done()
		log.Printf("Iniciando servidor WS")
		if err := run.wsServer.Start(runtimeCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("ws server error: %v", err)
		}
	}()

	switch cfg.EventSource {
	case config.EventSourceIRC:
		run.platform.EnableIRC(twitchadapter.Config{
			Username:   cfg.TwitchUsername,
			OAuthToken: formatTwitchOAuthToken(cfg.TwitchToken),
			Channels:   cfg.TwitchChannels,
		})
	default:
		run.platform.EnableStreamerBot(streamerbot.Config{
			URL:               cfg.StreamerBotURL,
			ActionTwitch:      cfg.StreamerBotActionTwitch,
			ActionTwitchReply: cfg.StreamerBotActionTwitchMsg,
			ActionYouTube:     cfg.StreamerBotActionYouTube,
			ReconnectDelay:    cfg.StreamerBotReconnectBackoff,
		})
	}

	run.started = true
	log.Println("Iniciando bot...")
	return run, nil
}

type builtinDeps struct {
	cfg           *config.Config
	lines         *corpus.Store
	commands      *commands.Store
	twitch        domain.TwitchLookupService
	broadcasterID string
}

// registerBuiltins registra los comandos internos. El orden es el que muestra
// la lista de comandos.
func registerBuiltins(r *commands.Resolver, deps builtinDeps) {
	r.Register(commands.NewTimeCommand(deps.cfg.Timezone))
	r.Register(commands.NewComplimentCommand(deps.lines))
	r.Register(commands.NewQuoteCommand(deps.lines))
	r.Register(commands.NewPromoteCommand(discord.NewWebhookClient(), commands.PromoteConfig{
		WebhookURL: deps.cfg.WebhookURL,
		RoleID:     deps.cfg.PromoteRoleID,
		URL:        deps.cfg.PromoteURL,
	}))
	r.Register(commands.NewShoutoutCommand(deps.twitch))
	r.Register(commands.NewVODCommand(deps.twitch, deps.broadcasterID))
	r.Register(commands.NewManageCommand(deps.commands))
	r.Register(commands.NewManageModCommand(deps.commands))
	r.Register(commands.NewAddQuoteCommand(deps.lines))
	r.Register(commands.NewAddTimerCommand(deps.lines))
	r.Register(commands.NewAddComplimentCommand(deps.lines))
	r.Register(commands.NewDefineCommand(dictionary.NewClient("")))
	r.Register(commands.NewConvertCommand())
}

// startTwitchLookup crea el cliente de Helix y el refresher del app token.
// Sin client id/secret devuelve nil y los comandos que dependen de Helix no
// responden.
func (r *Runtime) startTwitchLookup(ctx context.Context) (domain.TwitchLookupService, string) {
	cfg := r.cfg
	if cfg.TwitchClientId == "" || cfg.TwitchClientSecret == "" {
		log.Println("runtime: sin TWITCH_CLIENT_ID/TWITCH_CLIENT_SECRET, shoutouts y vod deshabilitados")
		return nil, ""
	}

	refresher := credentialsusecase.NewRefresher(credentialsusecase.TwitchConfig{
		ClientID:     cfg.TwitchClientId,
		ClientSecret: cfg.TwitchClientSecret,
	})
	token, err := refresher.Refresh(ctx)
	if err != nil {
		log.Printf("runtime: error obteniendo app token de Twitch: %v", err)
	}

	lookup, err := twitchinfra.NewLookupService(twitchinfra.Options{
		ClientID:       cfg.TwitchClientId,
		AppAccessToken: token.AccessToken,
	})
	if err != nil {
		log.Printf("runtime: no se pudo iniciar Helix: %v", err)
		return nil, ""
	}
	refresher.RegisterHook(func(_ context.Context, t credentialsusecase.Token) {
		lookup.UpdateAccessToken(t.AccessToken)
	})
	refresher.Start(ctx, refreshInterval)

	broadcasterID := strings.TrimSpace(cfg.TwitchBroadcasterId)
	if broadcasterID == "" && len(cfg.TwitchChannels) > 0 {
		id, err := lookup.UserID(ctx, cfg.TwitchChannels[0])
		if err != nil {
			log.Printf("runtime: no pude resolver el ID de Twitch: %v", err)
		} else {
			broadcasterID = id
		}
	}
	return lookup, broadcasterID
}

// Stop cancela todo y espera a que terminen las respuestas en vuelo.
func (r *Runtime) Stop() error {
	if r == nil || !r.started {
		return nil
	}
	r.cancel()
	r.platform.Shutdown()
	if r.ttsRunner != nil {
		_ = r.ttsRunner.Close()
	}
	r.asyncOut.Wait()
	r.wg.Wait()
	r.bus.Close()

	var errs []error
	for _, closeFn := range r.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	r.started = false
	return errors.Join(errs...)
}

func (r *Runtime) Bus() *events.Bus {
	if r == nil {
		return nil
	}
	return r.bus
}

func formatTwitchOAuthToken(token string) string {
	token = strings.TrimSpace(token)
	if token == "" || strings.HasPrefix(token, "oauth:") {
		return token
	}
	return "oauth:" + token
}
