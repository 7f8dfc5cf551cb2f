package models

import "fmt"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending          OrderStatus = "PENDING"
	StatusConfirmed        OrderStatus = "CONFIRMED"
	StatusPreparing        OrderStatus = "PREPARING"
	StatusReadyForDelivery OrderStatus = "READY_FOR_DELIVERY"
	StatusDispatched       OrderStatus = "DISPATCHED"
	StatusOutForDelivery   OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered        OrderStatus = "DELIVERED"
	StatusCancelled        OrderStatus = "CANCELLED"
	StatusReturned         OrderStatus = "RETURNED"
)

// MainSequence is the normal delivery progression. CANCELLED and RETURNED
// sit outside it as terminal side branches.
var MainSequence = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusReadyForDelivery,
	StatusDispatched,
	StatusOutForDelivery,
	StatusDelivered,
}

var sequenceIndex = func() map[OrderStatus]int {
	m := make(map[OrderStatus]int, len(MainSequence))
	for i, s := range MainSequence {
		m[s] = i
	}
	return m
}()

// StatusConfig holds the display attributes for a status.
type StatusConfig struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var statusConfigs = map[OrderStatus]StatusConfig{
	StatusPending:          {Label: "Pending", Icon: "clock", Color: "yellow"},
	StatusConfirmed:        {Label: "Confirmed", Icon: "check-circle", Color: "blue"},
	StatusPreparing:        {Label: "Preparing", Icon: "chef-hat", Color: "orange"},
	StatusReadyForDelivery: {Label: "Ready for Delivery", Icon: "package", Color: "purple"},
	StatusDispatched:       {Label: "Dispatched", Icon: "send", Color: "indigo"},
	StatusOutForDelivery:   {Label: "Out for Delivery", Icon: "truck", Color: "cyan"},
	StatusDelivered:        {Label: "Delivered", Icon: "check", Color: "green"},
	StatusCancelled:        {Label: "Cancelled", Icon: "x-circle", Color: "red"},
	StatusReturned:         {Label: "Returned", Icon: "rotate-ccw", Color: "gray"},
}

// ParseStatus validates a raw status string. Matching is case-sensitive.
func ParseStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(raw)
	if _, ok := statusConfigs[s]; !ok {
		return "", fmt.Errorf("unknown order status %q", raw)
	}
	return s, nil
}

// IsTerminal reports whether no further transitions are offered from s.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusReturned
}

// NextStatus returns the status immediately following s in the main
// sequence. ok is false for terminal and unknown statuses.
func NextStatus(s OrderStatus) (OrderStatus, bool) {
	i, ok := sequenceIndex[s]
	if !ok || i == len(MainSequence)-1 {
		return "", false
	}
	return MainSequence[i+1], true
}

// AvailableStatuses returns the statuses an operator may move s to: the
// strict forward suffix of the main sequence. Terminal statuses get none.
func AvailableStatuses(s OrderStatus) []OrderStatus {
	i, ok := sequenceIndex[s]
	if !ok || s.IsTerminal() {
		return nil
	}
	return append([]OrderStatus(nil), MainSequence[i+1:]...)
}

// CanTransition reports whether an order may move from one status to
// another. Forward jumps along the main sequence are allowed, as is
// cancelling any non-terminal order. Terminal statuses accept nothing.
func CanTransition(from, to OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fi, fok := sequenceIndex[from]
	ti, tok := sequenceIndex[to]
	return fok && tok && ti > fi
}

// StatusDisplay returns the display config for s. Unknown values fall
// back to PENDING's config so stale rows still render.
func StatusDisplay(s OrderStatus) StatusConfig {
	if cfg, ok := statusConfigs[s]; ok {
		return cfg
	}
	return statusConfigs[StatusPending]
}
