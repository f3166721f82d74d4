package catalog

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"gorm.io/gorm"

	"github.com/statichead/rabbitears/internal/db"
	"github.com/statichead/rabbitears/internal/logger"
	"github.com/statichead/rabbitears/internal/models"
)

// Report summarizes one run of the import pipeline.
type Report struct {
	DocumentPath       string
	Channels           []*models.Channel
	Failures           []ChannelFailure
	CollectionsCreated int
	ItemsCreated       int
	ItemsUpdated       int
	StartedAt          time.Time
	FinishedAt         time.Time
}

// Status classifies the run for the import history.
func (r *Report) Status() string {
	switch {
	case len(r.Failures) == 0:
		return models.ImportStatusSucceeded
	case len(r.Channels) == 0:
		return models.ImportStatusFailed
	default:
		return models.ImportStatusPartial
	}
}

// Summary is a one-line human description of the run.
func (r *Report) Summary() string {
	if len(r.Failures) == 0 {
		return fmt.Sprintf("imported %d channel(s)", len(r.Channels))
	}
	return fmt.Sprintf("imported %d channel(s), %d failed", len(r.Channels), len(r.Failures))
}

// Importer drives the catalog import pipeline: validated channel
// definitions in, persisted catalog entities out. Each channel is imported
// in its own transaction so one bad channel never takes down the rest of
// the run.
type Importer struct {
	db   *db.DB
	runs *db.ImportRunRepository
}

// NewImporter creates an importer backed by the given database.
func NewImporter(database *db.DB, runs *db.ImportRunRepository) *Importer {
	return &Importer{db: database, runs: runs}
}

// ImportFile loads, validates and imports the catalog document at path and
// records the outcome in the import history.
func (imp *Importer) ImportFile(ctx context.Context, path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog document: %w", err)
	}
	return imp.ImportDocument(ctx, data, path)
}

// ImportDocument parses, validates and imports an in-memory catalog
// document. The source string names where the document came from and is
// only used for logging and the import history.
func (imp *Importer) ImportDocument(ctx context.Context, data []byte, source string) (*Report, error) {
	started := time.Now().UTC()

	doc, err := Parse(data)
	if err != nil {
		imp.recordAborted(ctx, source, started, err)
		return nil, err
	}
	vdoc, err := Validate(doc)
	if err != nil {
		imp.recordAborted(ctx, source, started, err)
		return nil, err
	}

	report, err := imp.Import(ctx, vdoc)
	report.DocumentPath = source
	report.StartedAt = started
	imp.recordRun(ctx, report, err)
	return report, err
}

// Import applies every channel definition of a validated document. The
// returned report lists committed channels in document order alongside the
// failures; err is a *ImportError when at least one channel failed and nil
// when all of them made it. Idempotent: importing the same document twice
// leaves the catalog unchanged.
func (imp *Importer) Import(ctx context.Context, vdoc *ValidatedDocument) (*Report, error) {
	report := &Report{StartedAt: time.Now().UTC()}

	logger.Log.Info().Int("channels", len(vdoc.Channels)).Msg("starting catalog import")

	for i := range vdoc.Channels {
		vc := &vdoc.Channels[i]
		label := vc.Label(i)

		if !vc.Valid() {
			failure := ChannelFailure{
				Number: label,
				Name:   vc.Def.Name,
				Err:    &ValidationError{Violations: vc.Issues},
			}
			report.Failures = append(report.Failures, failure)
			logger.Log.Warn().
				Str("channel", label).
				Int("violations", len(vc.Issues)).
				Msg("skipping channel with schema violations")
			continue
		}

		channel, stats, err := imp.importChannel(ctx, &vc.Def)
		if err != nil {
			report.Failures = append(report.Failures, ChannelFailure{
				Number: label,
				Name:   vc.Def.Name,
				Err:    err,
			})
			logger.Log.Warn().
				Str("channel", label).
				Err(err).
				Msg("channel import rolled back")
			continue
		}

		report.Channels = append(report.Channels, channel)
		report.CollectionsCreated += stats.CollectionsCreated
		report.ItemsCreated += stats.ItemsCreated
		report.ItemsUpdated += stats.ItemsUpdated
		logger.Log.Info().
			Str("channel", channel.Number).
			Str("name", channel.Name).
			Int("streams", len(vc.Def.Streams)).
			Msg("channel imported")
	}

	report.FinishedAt = time.Now().UTC()
	logger.Log.Info().
		Int("imported", len(report.Channels)).
		Int("failed", len(report.Failures)).
		Int("collections_created", report.CollectionsCreated).
		Int("items_created", report.ItemsCreated).
		Int("items_updated", report.ItemsUpdated).
		Msg("catalog import finished")

	if len(report.Failures) > 0 {
		return report, &ImportError{Failures: report.Failures}
	}
	return report, nil
}

// importChannel applies one channel definition inside its own transaction.
// Any error rolls back everything the channel touched, including entities
// the resolver created on its behalf.
func (imp *Importer) importChannel(ctx context.Context, def *ChannelDef) (*models.Channel, resolverStats, error) {
	var (
		channel *models.Channel
		stats   resolverStats
		cause   error
	)

	err := imp.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		resolver := newResolver(tx)

		ch, err := resolver.Channel(ctx, def)
		if err != nil {
			cause = err
			return err
		}

		items := make([]*models.PlaylistItem, 0, len(def.Streams))
		var merr *multierror.Error
		for j := range def.Streams {
			item, err := imp.importStream(ctx, resolver, &def.Streams[j])
			if err != nil {
				merr = multierror.Append(merr, fmt.Errorf("streams[%d]: %w", j, err))
				continue
			}
			items = append(items, models.NewPlaylistItem(ch.ID, item.ID, j))
		}
		// Keep resolving past bad streams so one rollback reports them all.
		if err := merr.ErrorOrNil(); err != nil {
			cause = err
			return err
		}

		if err := db.ReplacePlaylistTx(tx, ch.ID, items); err != nil {
			cause = err
			return err
		}

		channel = ch
		stats = resolver.stats
		return nil
	})
	if err != nil {
		if cause != nil {
			return nil, resolverStats{}, cause
		}
		return nil, resolverStats{}, err
	}
	return channel, stats, nil
}

// importStream turns one stream definition into a persisted media item.
func (imp *Importer) importStream(ctx context.Context, resolver *Resolver, def *StreamDef) (*models.MediaItem, error) {
	collection, err := resolver.Collection(ctx, def.Collection)
	if err != nil {
		return nil, err
	}

	var runtimeSeconds *int64
	if def.Runtime != "" {
		seconds, err := ParseDuration(def.Runtime)
		if err != nil {
			return nil, err
		}
		runtimeSeconds = &seconds
	}

	var broadcastDate *time.Time
	if def.BroadcastDate != "" {
		date, err := time.Parse("2006-01-02", string(def.BroadcastDate))
		if err != nil {
			return nil, fmt.Errorf("invalid broadcast_date %q: expected YYYY-MM-DD", def.BroadcastDate)
		}
		broadcastDate = &date
	}

	return resolver.MediaItem(ctx, collection, def, runtimeSeconds, broadcastDate)
}

// recordRun persists the outcome of an import run. History is best effort:
// a write failure is logged and otherwise ignored so it can never mask the
// import result itself.
func (imp *Importer) recordRun(ctx context.Context, report *Report, importErr error) {
	if imp.runs == nil {
		return
	}

	run := models.NewImportRun(report.DocumentPath)
	run.StartedAt = report.StartedAt
	run.ChannelsImported = len(report.Channels)
	run.ChannelsFailed = len(report.Failures)
	run.CollectionsCreated = report.CollectionsCreated
	run.ItemsCreated = report.ItemsCreated
	run.ItemsUpdated = report.ItemsUpdated
	run.Status = report.Status()
	if importErr != nil {
		detail := importErr.Error()
		run.Detail = &detail
	}
	finished := report.FinishedAt
	run.FinishedAt = &finished

	if err := imp.runs.Create(ctx, run); err != nil {
		logger.Log.Error().Err(err).Msg("failed to record import run")
	}
}

// recordAborted persists a history row for a run that never got past
// document validation.
func (imp *Importer) recordAborted(ctx context.Context, source string, started time.Time, cause error) {
	if imp.runs == nil {
		return
	}

	run := models.NewImportRun(source)
	run.StartedAt = started
	run.Status = models.ImportStatusFailed
	detail := cause.Error()
	run.Detail = &detail
	finished := time.Now().UTC()
	run.FinishedAt = &finished

	if err := imp.runs.Create(ctx, run); err != nil {
		logger.Log.Error().Err(err).Msg("failed to record import run")
	}
}
