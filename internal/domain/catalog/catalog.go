package catalog

import (
	"context"
	"errors"
	"time"

	"kostadmin/internal/domain/shared/money"
)

var (
	ErrBuildingNotFound = errors.New("catalog: building not found")
	ErrRoomNotFound     = errors.New("catalog: room not found")
	ErrRoomTypeNotFound = errors.New("catalog: room type not found")
	ErrInvalidRoom      = errors.New("catalog: room requires building, floor and type")
)

type BuildingID string
type FloorID string
type RoomTypeID string
type RoomID string

type Building struct {
	ID        BuildingID
	Name      string
	Address   string
	City      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Floor struct {
	ID         FloorID
	BuildingID BuildingID
	Name       string
	Level      int
}

type RoomType struct {
	ID          RoomTypeID
	Name        string
	Description string
	Capacity    int
}

type RoomStatus string

const (
	RoomVacant      RoomStatus = "VACANT"
	RoomOccupied    RoomStatus = "OCCUPIED"
	RoomMaintenance RoomStatus = "MAINTENANCE"
)

type Room struct {
	ID          RoomID
	BuildingID  BuildingID
	FloorID     FloorID
	RoomTypeID  RoomTypeID
	Number      string
	Status      RoomStatus
	MonthlyIDR  money.IDR
	WeeklyIDR   money.IDR
	DailyIDR    money.IDR
	DepositIDR  money.IDR
	Amenities   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the relational ids a room must carry before it can be
// targeted by contracts or promotion scopes.
func (r *Room) Validate() error {
	if r.BuildingID == "" || r.FloorID == "" || r.RoomTypeID == "" {
		return ErrInvalidRoom
	}
	return nil
}

type BuildingRepository interface {
	ByID(ctx context.Context, id BuildingID) (*Building, error)
	Save(ctx context.Context, b *Building) error
	List(ctx context.Context) ([]*Building, error)
	Delete(ctx context.Context, id BuildingID) error
}

type RoomRepository interface {
	ByID(ctx context.Context, id RoomID) (*Room, error)
	Save(ctx context.Context, r *Room) error
	ListByBuilding(ctx context.Context, id BuildingID) ([]*Room, error)
	Delete(ctx context.Context, id RoomID) error
}

type RoomTypeRepository interface {
	ByID(ctx context.Context, id RoomTypeID) (*RoomType, error)
	Save(ctx context.Context, rt *RoomType) error
	List(ctx context.Context) ([]*RoomType, error)
}
