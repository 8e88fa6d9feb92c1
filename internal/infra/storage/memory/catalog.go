package memory

import (
	"context"
	"sort"
	"sync"

	"kostadmin/internal/domain/catalog"
)

type BuildingRepository struct {
	mu    sync.RWMutex
	items map[catalog.BuildingID]*catalog.Building
}

func NewBuildingRepository() *BuildingRepository {
	return &BuildingRepository{items: make(map[catalog.BuildingID]*catalog.Building)}
}

func (r *BuildingRepository) ByID(ctx context.Context, id catalog.BuildingID) (*catalog.Building, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, catalog.ErrBuildingNotFound
	}
	return b, nil
}

func (r *BuildingRepository) Save(ctx context.Context, b *catalog.Building) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[b.ID] = b
	return nil
}

func (r *BuildingRepository) List(ctx context.Context) ([]*catalog.Building, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*catalog.Building, 0, len(r.items))
	for _, b := range r.items {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *BuildingRepository) Delete(ctx context.Context, id catalog.BuildingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return catalog.ErrBuildingNotFound
	}
	delete(r.items, id)
	return nil
}

type RoomRepository struct {
	mu    sync.RWMutex
	items map[catalog.RoomID]*catalog.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{items: make(map[catalog.RoomID]*catalog.Room)}
}

func (r *RoomRepository) ByID(ctx context.Context, id catalog.RoomID) (*catalog.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.items[id]
	if !ok {
		return nil, catalog.ErrRoomNotFound
	}
	return room, nil
}

func (r *RoomRepository) Save(ctx context.Context, room *catalog.Room) error {
	if err := room.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[room.ID] = room
	return nil
}

func (r *RoomRepository) ListByBuilding(ctx context.Context, id catalog.BuildingID) ([]*catalog.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*catalog.Room
	for _, room := range r.items {
		if room.BuildingID == id {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *RoomRepository) Delete(ctx context.Context, id catalog.RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return catalog.ErrRoomNotFound
	}
	delete(r.items, id)
	return nil
}

type RoomTypeRepository struct {
	mu    sync.RWMutex
	items map[catalog.RoomTypeID]*catalog.RoomType
}

func NewRoomTypeRepository() *RoomTypeRepository {
	return &RoomTypeRepository{items: make(map[catalog.RoomTypeID]*catalog.RoomType)}
}

func (r *RoomTypeRepository) ByID(ctx context.Context, id catalog.RoomTypeID) (*catalog.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.items[id]
	if !ok {
		return nil, catalog.ErrRoomTypeNotFound
	}
	return rt, nil
}

func (r *RoomTypeRepository) Save(ctx context.Context, rt *catalog.RoomType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rt.ID] = rt
	return nil
}

func (r *RoomTypeRepository) List(ctx context.Context) ([]*catalog.RoomType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*catalog.RoomType, 0, len(r.items))
	for _, rt := range r.items {
		out = append(out, rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

var (
	_ catalog.BuildingRepository = (*BuildingRepository)(nil)
	_ catalog.RoomRepository     = (*RoomRepository)(nil)
	_ catalog.RoomTypeRepository = (*RoomTypeRepository)(nil)
)
