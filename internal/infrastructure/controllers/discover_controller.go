package controllers

import (
	"context"
	"fmt"
	"io"
	"strings"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/giteasync/internal/domain/commands"
	"github.com/rios0rios0/giteasync/internal/domain/entities"
	"github.com/rios0rios0/giteasync/internal/infrastructure/repositories/memory"
)

// DiscoverController handles the "discover" subcommand.
type DiscoverController struct {
	discover commands.Discover
	reindex  commands.Reindex
	owners   *memory.SourceOwnerRepository
}

// NewDiscoverController creates a new DiscoverController.
func NewDiscoverController(
	discover commands.Discover,
	reindex commands.Reindex,
	owners *memory.SourceOwnerRepository,
) *DiscoverController {
	return &DiscoverController{discover: discover, reindex: reindex, owners: owners}
}

// GetBind returns the Cobra command metadata for the discover controller.
func (it *DiscoverController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "discover",
		Short: "List the buildable branches of the configured owners",
		Long: `Scan every repository of each configured navigator and print the
branches that pass the include, exclude and criteria filters,
one "owner/repository<TAB>branch<TAB>commit" line per head.

With --repository, only the tracked sources pointing at that
repository are scanned.`,
	}
}

// Execute runs the discovery scan.
func (it *DiscoverController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Error(err)
		return
	}
	it.owners.Load(settings.Owners)

	ownerFilter, _ := cmd.Flags().GetString("owner")
	repository, _ := cmd.Flags().GetString("repository")
	out := cmd.OutOrStdout()

	if repository != "" {
		owner, name, found := strings.Cut(repository, "/")
		if !found || owner == "" || name == "" {
			logger.Errorf("--repository must be owner/name, got %q", repository)
			return
		}
		heads, reindexErr := it.reindex.Execute(ctx, settings, entities.PushEvent{
			Event: "manual", Owner: owner, Repository: name,
		})
		if reindexErr != nil {
			logger.Errorf("Discovery of %s failed: %v", repository, reindexErr)
			return
		}
		printHeads(out, heads)
		return
	}

	for _, navigator := range settings.Navigators {
		if ownerFilter != "" && navigator.Owner != ownerFilter {
			continue
		}
		heads, discoverErr := it.discover.Execute(ctx, settings, navigator)
		if discoverErr != nil {
			logger.Errorf("Discovery of %q failed: %v", navigator.Owner, discoverErr)
			continue
		}
		logger.Infof("Found %d heads for %q", len(heads), navigator.Owner)
		printHeads(out, heads)
	}
}

// AddFlags adds the discover-specific flags to the given Cobra command.
func (it *DiscoverController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("owner", "", "Only scan this navigator owner")
	cmd.Flags().String("repository", "", "Only scan the tracked sources of this owner/name repository")
}

func printHeads(out io.Writer, heads []entities.ProposedHead) {
	for _, head := range heads {
		_, _ = fmt.Fprintf(out, "%s/%s\t%s\t%s\n", head.Owner, head.Repository, head.Head, head.Hash)
	}
}
