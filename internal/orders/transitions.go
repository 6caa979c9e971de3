package orders

import "github.com/diwinters/tradewind-backend/pkg/enums"

// transitionTable is the single source of truth for the order state machine.
// Terminal states have no outgoing edges; anything not listed here fails
// INVALID_STATUS_TRANSITION and leaves the order untouched.
var transitionTable = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusCreated:    {enums.OrderStatusPaid, enums.OrderStatusCancelled},
	enums.OrderStatusPaid:       {enums.OrderStatusAccepted, enums.OrderStatusCancelled, enums.OrderStatusRefunded},
	enums.OrderStatusAccepted:   {enums.OrderStatusInProgress, enums.OrderStatusCancelled, enums.OrderStatusRefunded},
	enums.OrderStatusInProgress: {enums.OrderStatusShipped, enums.OrderStatusDelivered, enums.OrderStatusDisputed},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered, enums.OrderStatusDisputed},
	enums.OrderStatusDelivered:  {enums.OrderStatusCompleted, enums.OrderStatusDisputed},
	enums.OrderStatusDisputed:   {enums.OrderStatusResolvedBuyer, enums.OrderStatusResolvedSeller},
}

// CanTransition reports whether the state machine permits moving from one
// status to another.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, target := range transitionTable[from] {
		if target == to {
			return true
		}
	}
	return false
}
