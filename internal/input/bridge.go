package input

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arcblade/engine/internal/component"
	"github.com/arcblade/engine/internal/core/ecs"
)

// Bridge maps device session signals to entity lifetime. Disconnect goes
// through the store's one generic removal path, so query exits and lifecycle
// disposal fire identically no matter why an entity goes away; there is
// deliberately no disconnect-specific cleanup here.
type Bridge struct {
	store   *ecs.Store
	devices *ecs.View
	log     *zap.Logger
}

func NewBridge(store *ecs.Store, log *zap.Logger) (*Bridge, error) {
	devices, err := store.Query().With(ecs.KindDevice).Build()
	if err != nil {
		return nil, err
	}
	return &Bridge{store: store, devices: devices, log: log}, nil
}

// Connected creates the entity for a newly connected controller. Duplicate
// connects for a handle already represented are ignored with a warning.
func (b *Bridge) Connected(handle uuid.UUID, hand component.Hand) ecs.EntityID {
	if id, ok := b.find(handle); ok {
		b.log.Warn("duplicate device connect",
			zap.String("device", handle.String()), zap.Uint64("entity", uint64(id)))
		return id
	}
	id := b.store.Create(
		component.Device{Handle: handle},
		component.Identity{Hand: hand},
	)
	b.log.Info("device connected",
		zap.String("device", handle.String()),
		zap.Stringer("hand", hand),
		zap.Uint64("entity", uint64(id)))
	return id
}

// Disconnected removes the entity whose device handle matches. Unknown
// handles are logged and ignored.
func (b *Bridge) Disconnected(handle uuid.UUID) {
	id, ok := b.find(handle)
	if !ok {
		b.log.Warn("disconnect for unknown device", zap.String("device", handle.String()))
		return
	}
	b.log.Info("device disconnected",
		zap.String("device", handle.String()), zap.Uint64("entity", uint64(id)))
	b.store.Remove(id)
}

func (b *Bridge) find(handle uuid.UUID) (ecs.EntityID, bool) {
	for _, id := range b.devices.Entities() {
		if dev, ok := ecs.Get[component.Device](b.store, id); ok && dev.Handle == handle {
			return id, true
		}
	}
	return 0, false
}
