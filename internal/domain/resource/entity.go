package resource

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyName     = errors.New("machine name cannot be empty")
	ErrEmptyBuilding = errors.New("building cannot be empty")
	ErrInvalidKind   = errors.New("invalid machine kind")
)

// Machine is one physical reservable unit. Machines are provisioned in bulk
// at seed time and never deleted while reservations reference them.
// Occupancy is derived from the active reservation set at read time; it is
// deliberately not a field here.
type Machine struct {
	id       uuid.UUID
	name     string
	building string
	kind     Kind
}

func NewMachine(id uuid.UUID, name, building string, kind Kind) (*Machine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	building = strings.TrimSpace(building)
	if building == "" {
		return nil, ErrEmptyBuilding
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}

	return &Machine{
		id:       id,
		name:     name,
		building: building,
		kind:     kind,
	}, nil
}

func (m *Machine) ID() uuid.UUID    { return m.id }
func (m *Machine) Name() string     { return m.name }
func (m *Machine) Building() string { return m.building }
func (m *Machine) Kind() Kind       { return m.kind }
