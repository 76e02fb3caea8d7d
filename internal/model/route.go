package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RouteStop is one desired stop on a route: which shop, and how much
// product the agent is expected to drop there.
type RouteStop struct {
	ShopID      uuid.UUID       `json:"shop_id"`
	ExpectedQty decimal.Decimal `json:"expected_qty"`
}

// RouteStops is stored as a jsonb array on the route. The stops field is
// the desired-state source of truth; Delivery rows are materialized from it.
type RouteStops []RouteStop

func (s RouteStops) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

func (s *RouteStops) Scan(value interface{}) error {
	if value == nil {
		*s = RouteStops{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for RouteStops")
	}

	return json.Unmarshal(data, s)
}

type RouteStatus string

const (
	RoutePlanned   RouteStatus = "planned"
	RouteActive    RouteStatus = "active"
	RouteCompleted RouteStatus = "completed"
)

// Route is one agent's delivery run for a date
type Route struct {
	BaseModel
	Name      string      `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	AgentID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"agent_id" validate:"uuid_required"`
	Agent     *User       `gorm:"foreignKey:AgentID" json:"agent,omitempty" validate:"-"`
	RouteDate time.Time   `gorm:"type:date;not null;index" json:"route_date"`
	Status    RouteStatus `gorm:"type:varchar(20);not null;default:'planned'" json:"status"`
	Stops     RouteStops  `gorm:"type:jsonb;default:'[]'" json:"stops"`
}

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryInTransit DeliveryStatus = "in_transit"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryPartial   DeliveryStatus = "partial"
	DeliveryReturned  DeliveryStatus = "returned"
	DeliveryFailed    DeliveryStatus = "failed"
	DeliveryCancelled DeliveryStatus = "cancelled"
)

// IsTerminal reports whether a delivery has reached a final state
func (s DeliveryStatus) IsTerminal() bool {
	switch s {
	case DeliveryDelivered, DeliveryReturned, DeliveryFailed, DeliveryCancelled:
		return true
	}
	return false
}

// Delivery is one stop's fulfillment, materialized from the route's stop
// list. Exactly one pending row exists per (route, shop); once it leaves
// pending it is never deleted or rewritten by route edits.
type Delivery struct {
	BaseModel
	RouteID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"route_id"`
	Route        *Route          `json:"route,omitempty"`
	ShopID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"shop_id"`
	Shop         *Shop           `json:"shop,omitempty"`
	ExpectedQty  decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"expected_qty"`
	DeliveredQty decimal.Decimal `gorm:"type:decimal(12,3)" json:"delivered_qty"`
	Status       DeliveryStatus  `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Items        json.RawMessage `gorm:"type:jsonb;default:'[]'" json:"items"`
	Note         string          `gorm:"type:text" json:"note"`
}
