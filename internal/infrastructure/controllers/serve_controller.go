package controllers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/domain/repositories"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/memory"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// ServeController handles the "serve" subcommand.
type ServeController struct {
	sync     commands.WebhookSync
	orgHooks commands.OrgWebhook
	status   commands.Status
	reindex  commands.Reindex
	forges   repositories.ForgeProvider
	markers  repositories.HookMarkerProvider
	owners   *memory.SourceOwnerRepository
	queue    *memory.BuildQueueRepository
}

// NewServeController creates a new ServeController.
func NewServeController(
	sync commands.WebhookSync,
	orgHooks commands.OrgWebhook,
	status commands.Status,
	reindex commands.Reindex,
	forges repositories.ForgeProvider,
	markers repositories.HookMarkerProvider,
	owners *memory.SourceOwnerRepository,
	queue *memory.BuildQueueRepository,
) *ServeController {
	return &ServeController{
		sync:     sync,
		orgHooks: orgHooks,
		status:   status,
		reindex:  reindex,
		forges:   forges,
		markers:  markers,
		owners:   owners,
		queue:    queue,
	}
}

// GetBind returns the Cobra command metadata for the serve controller.
func (it *ServeController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "serve",
		Short: "Run the webhook endpoint and keep forge hooks in sync",
		Long: `Start the HTTP endpoint receiving Gitea webhooks and CI callbacks.

On start, webhooks are reconciled for every configured owner and
organization webhooks are requested for every navigator. While
running, owner changes received on /owners are applied in arrival
order and build events on /builds/events become commit statuses.`,
	}
}

// Execute serves until SIGINT or SIGTERM.
func (it *ServeController) Execute(cmd *cobra.Command, _ []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}
	if address, _ := cmd.Flags().GetString("listen"); address != "" {
		settings.Listen.Address = address
	}
	it.owners.Load(settings.Owners)

	markers, closeMarkers, err := it.markers.Open(ctx, settings.Markers)
	if err != nil {
		logger.Errorf("Failed to open %s marker store: %v", settings.Markers.Backend, err)
		return
	}
	defer closeMarkers()

	// queued lifecycle events are still applied after a shutdown signal
	it.sync.Start(context.WithoutCancel(ctx), settings)
	defer it.sync.Stop()

	it.boot(ctx, settings, markers)

	server := &http.Server{
		Addr: settings.Listen.Address,
		Handler: NewRouter(settings, RouterDependencies{
			Sync:    it.sync,
			Status:  it.status,
			Reindex: it.reindex,
			Owners:  it.owners,
			Queue:   it.queue,
		}),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Infof("Listening on %s", settings.Listen.Address)
		if serveErr := server.ListenAndServe(); !errors.Is(serveErr, http.ErrServerClosed) {
			return serveErr
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if waitErr := group.Wait(); waitErr != nil {
		logger.Errorf("Server stopped: %v", waitErr)
	}
}

// AddFlags adds the serve-specific flags to the given Cobra command.
func (it *ServeController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("listen", "", "Address to listen on (overrides listen.address)")
}

func (it *ServeController) boot(
	ctx context.Context,
	settings *entities.Settings,
	markers repositories.HookMarkerRepository,
) {
	it.logConnectivity(ctx, settings)

	for _, owner := range settings.Owners {
		it.sync.OnUpdated(owner)
	}
	for _, navigator := range settings.Navigators {
		if err := it.orgHooks.Execute(ctx, settings, markers, navigator); err != nil {
			logger.Errorf("Organization webhook of %q failed: %v", navigator.Owner, err)
		}
	}
}

func (it *ServeController) logConnectivity(ctx context.Context, settings *entities.Settings) {
	ids := make([]string, 0, len(settings.Credentials))
	for id := range settings.Credentials {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		forge, err := it.forges.Get(settings.ForgeType, settings.Connection("", "", id))
		if err != nil {
			logger.Errorf("Cannot open %s forge: %v", settings.ForgeType, err)
			return
		}
		user, err := forge.GetAuthenticatedUser(ctx)
		if err != nil {
			logger.Warnf("Credentials %q cannot reach %s: %v", id, settings.ServerURL, err)
			continue
		}
		logger.Infof("Credentials %q authenticate as %q on %s", id, user.Username, settings.ServerURL)
	}
}
