package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/boxify/boxify/internal/cart"
	"github.com/boxify/boxify/internal/config"
	"github.com/boxify/boxify/internal/notify"
	"github.com/boxify/boxify/internal/session"
	"github.com/boxify/boxify/internal/storage"
	"github.com/boxify/boxify/internal/tui"
	"github.com/boxify/boxify/pkg/client"
	"github.com/boxify/boxify/pkg/logger"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errReported) {
			os.Exit(1)
		}
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err) //nolint:errcheck
		os.Exit(1)
	}
}

// flags override the environment for a single invocation.
type flags struct {
	apiURL string
	webURL string
}

func newRootCmd() *cobra.Command {
	var f flags
	root := &cobra.Command{
		Use:           "boxify",
		Short:         "Meal boxes from your terminal",
		Long:          "Boxify: browse meal boxes, build your own, check out and manage subscriptions.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, f)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		printHelp(cmd.OutOrStdout(), cmd.Root())
	})
	root.PersistentFlags().StringVar(&f.apiURL, "api-url", "", "API base URL (overrides BOXIFY_API_URL)")
	root.PersistentFlags().StringVar(&f.webURL, "web-url", "", "storefront URL (overrides BOXIFY_WEB_URL)")

	root.AddCommand(
		loginCmd(&f),
		registerCmd(&f),
		logoutCmd(&f),
		whoamiCmd(&f),
		cartCmd(&f),
		openCmd(&f),
		versionCmd(),
	)
	return root
}

// app holds the long-lived stores behind every command.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	logFile io.Closer
	store   *storage.Store
	client  *client.Client
	session *session.Store
}

// setup loads configuration and wires the client to the session. Toasts
// raised by the session go to notes.
func setup(f flags, notes notify.Notifier) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if f.apiURL != "" {
		cfg.APIURL = f.apiURL
	}
	if f.webURL != "" {
		cfg.WebURL = f.webURL
	}

	log, logFile, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		File:     cfg.Logger.File,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := storage.Open(cfg.StatePath)
	if err != nil {
		logFile.Close() //nolint:errcheck
		return nil, fmt.Errorf("open state: %w", err)
	}

	c := client.New(cfg.APIURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithLogger(log.Named("client")),
	)
	sess := session.New(c,
		session.WithPersister(store),
		session.WithNotifier(notes),
		session.WithLogger(log.Named("session")),
	)
	sess.Attach(c)

	return &app{
		cfg:     cfg,
		log:     log,
		logFile: logFile,
		store:   store,
		client:  c,
		session: sess,
	}, nil
}

// attachCart creates the cart store. From here on every identity change
// resyncs it.
func (a *app) attachCart() *cart.Store {
	return cart.New(a.client, a.session, cart.WithLogger(a.log.Named("cart")))
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("close state", zap.Error(err))
	}
	a.log.Sync() //nolint:errcheck
	a.logFile.Close() //nolint:errcheck
}

func runTUI(cmd *cobra.Command, f flags) error {
	toasts := notify.NewQueue(16)
	a, err := setup(f, toasts)
	if err != nil {
		return err
	}
	defer a.Close()

	carts := a.attachCart()
	// Restoring fires the identity change, which loads the cart once.
	a.session.Restore(cmd.Context())
	a.log.Info("starting tui", zap.String("version", version), zap.String("api", a.cfg.APIURL))

	m := tui.NewApp(tui.Deps{
		Client:  a.client,
		Session: a.session,
		Cart:    carts,
		Toasts:  toasts,
		Log:     a.log.Named("tui"),
		WebURL:  a.cfg.WebURL,
		Version: version,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctxOrBackground(cmd.Context())))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
