package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/statichead/rabbitears/internal/db"
	"github.com/statichead/rabbitears/internal/models"
)

// resolverStats counts the entities a resolver created or updated. The
// importer folds them into the run report only after the channel's
// transaction commits, so rolled-back work is never counted.
type resolverStats struct {
	CollectionsCreated int
	ItemsCreated       int
	ItemsUpdated       int
}

// Resolver provides get-or-create semantics for catalog entities inside a
// single import transaction. It is built fresh for each channel so its
// collection cache can never outlive a rollback.
type Resolver struct {
	tx          *gorm.DB
	collections map[string]*models.Collection
	stats       resolverStats
}

func newResolver(tx *gorm.DB) *Resolver {
	return &Resolver{
		tx:          tx,
		collections: make(map[string]*models.Collection),
	}
}

// Channel returns the channel with def's number, creating it when absent.
// An existing channel keeps its number and identity; name, group,
// description and enabled are refreshed from the definition.
func (r *Resolver) Channel(ctx context.Context, def *ChannelDef) (*models.Channel, error) {
	number := strings.TrimSpace(string(def.Number))

	var existing models.Channel
	err := r.tx.WithContext(ctx).Where("number = ?", number).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up channel %s: %w", number, db.MapGormError(err))
		}
		channel := models.NewChannel(number, def.Name)
		applyChannelDef(channel, def)
		if err := r.tx.WithContext(ctx).Create(channel).Error; err != nil {
			return nil, fmt.Errorf("failed to create channel %s: %w", number, db.MapGormError(err))
		}
		return channel, nil
	}

	applyChannelDef(&existing, def)
	existing.UpdatedAt = time.Now().UTC()
	err = r.tx.WithContext(ctx).
		Model(&models.Channel{}).
		Where("id = ?", existing.ID.String()).
		Select("name", "group_name", "description", "enabled", "updated_at").
		Updates(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update channel %s: %w", number, db.MapGormError(err))
	}
	return &existing, nil
}

func applyChannelDef(channel *models.Channel, def *ChannelDef) {
	channel.Name = def.Name
	channel.Group = optionalString(def.Group)
	channel.Description = optionalString(def.Description)
	channel.Enabled = def.IsEnabled()
}

// Collection returns the collection with the given name, creating it when
// absent. Names are matched exactly; resolved collections are cached for
// the lifetime of the transaction.
func (r *Resolver) Collection(ctx context.Context, name string) (*models.Collection, error) {
	if cached, ok := r.collections[name]; ok {
		return cached, nil
	}

	var existing models.Collection
	err := r.tx.WithContext(ctx).Where("name = ?", name).First(&existing).Error
	if err == nil {
		r.collections[name] = &existing
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up collection %q: %w", name, db.MapGormError(err))
	}

	collection := models.NewCollection(name)
	if err := r.tx.WithContext(ctx).Create(collection).Error; err != nil {
		return nil, fmt.Errorf("failed to create collection %q: %w", name, db.MapGormError(err))
	}
	r.stats.CollectionsCreated++
	r.collections[name] = collection
	return collection, nil
}

// MediaItem returns the media item the stream definition refers to inside
// collection, creating it when absent. Identity is the ref id when the
// definition carries one, otherwise the item's url within the collection.
// On a match the mutable fields (url, runtime, network, broadcast date,
// notes) are refreshed; source is fixed at creation.
func (r *Resolver) MediaItem(ctx context.Context, collection *models.Collection, def *StreamDef, runtimeSeconds *int64, broadcastDate *time.Time) (*models.MediaItem, error) {
	existing, err := r.findMediaItem(ctx, collection, def)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		item := models.NewMediaItem(collection.ID, def.URL, def.Source)
		// Trimmed to match the lookup in findMediaItem, or a padded id would
		// never be found again.
		item.RefID = optionalString(strings.TrimSpace(string(def.ID)))
		item.RuntimeSeconds = runtimeSeconds
		item.Network = optionalString(def.Network)
		item.BroadcastDate = broadcastDate
		item.Notes = optionalString(def.Notes)
		if err := r.tx.WithContext(ctx).Create(item).Error; err != nil {
			return nil, fmt.Errorf("failed to create media item %q: %w", def.URL, db.MapGormError(err))
		}
		r.stats.ItemsCreated++
		return item, nil
	}

	existing.URL = def.URL
	existing.RuntimeSeconds = runtimeSeconds
	existing.Network = optionalString(def.Network)
	existing.BroadcastDate = broadcastDate
	existing.Notes = optionalString(def.Notes)
	existing.UpdatedAt = time.Now().UTC()
	err = r.tx.WithContext(ctx).
		Model(&models.MediaItem{}).
		Where("id = ?", existing.ID.String()).
		Select("url", "runtime_seconds", "network", "broadcast_date", "notes", "updated_at").
		Updates(existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update media item %q: %w", def.URL, db.MapGormError(err))
	}
	r.stats.ItemsUpdated++
	return existing, nil
}

func (r *Resolver) findMediaItem(ctx context.Context, collection *models.Collection, def *StreamDef) (*models.MediaItem, error) {
	query := r.tx.WithContext(ctx).Where("collection_id = ?", collection.ID.String())
	if refID := strings.TrimSpace(string(def.ID)); refID != "" {
		query = query.Where("ref_id = ?", refID)
	} else {
		query = query.Where("url = ?", def.URL)
	}

	var item models.MediaItem
	if err := query.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up media item %q: %w", def.URL, db.MapGormError(err))
	}
	return &item, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
