package orders

import (
	"testing"

	"github.com/diwinters/tradewind-backend/pkg/enums"
)

func TestCanTransitionAllowedEdges(t *testing.T) {
	allowed := []struct {
		from, to enums.OrderStatus
	}{
		{enums.OrderStatusCreated, enums.OrderStatusPaid},
		{enums.OrderStatusCreated, enums.OrderStatusCancelled},
		{enums.OrderStatusPaid, enums.OrderStatusAccepted},
		{enums.OrderStatusPaid, enums.OrderStatusCancelled},
		{enums.OrderStatusPaid, enums.OrderStatusRefunded},
		{enums.OrderStatusAccepted, enums.OrderStatusInProgress},
		{enums.OrderStatusAccepted, enums.OrderStatusCancelled},
		{enums.OrderStatusAccepted, enums.OrderStatusRefunded},
		{enums.OrderStatusInProgress, enums.OrderStatusShipped},
		{enums.OrderStatusInProgress, enums.OrderStatusDelivered},
		{enums.OrderStatusInProgress, enums.OrderStatusDisputed},
		{enums.OrderStatusShipped, enums.OrderStatusDelivered},
		{enums.OrderStatusShipped, enums.OrderStatusDisputed},
		{enums.OrderStatusDelivered, enums.OrderStatusCompleted},
		{enums.OrderStatusDelivered, enums.OrderStatusDisputed},
		{enums.OrderStatusDisputed, enums.OrderStatusResolvedBuyer},
		{enums.OrderStatusDisputed, enums.OrderStatusResolvedSeller},
	}
	for _, edge := range allowed {
		if !CanTransition(edge.from, edge.to) {
			t.Errorf("expected %s -> %s to be allowed", edge.from, edge.to)
		}
	}
}

func TestCanTransitionRejectsOffTableEdges(t *testing.T) {
	rejected := []struct {
		from, to enums.OrderStatus
	}{
		{enums.OrderStatusCreated, enums.OrderStatusAccepted},
		{enums.OrderStatusCreated, enums.OrderStatusCompleted},
		{enums.OrderStatusAccepted, enums.OrderStatusShipped},
		{enums.OrderStatusPaid, enums.OrderStatusDelivered},
		{enums.OrderStatusShipped, enums.OrderStatusCancelled},
		{enums.OrderStatusDelivered, enums.OrderStatusRefunded},
		{enums.OrderStatusDisputed, enums.OrderStatusCompleted},
	}
	for _, edge := range rejected {
		if CanTransition(edge.from, edge.to) {
			t.Errorf("expected %s -> %s to be rejected", edge.from, edge.to)
		}
	}
}

func TestTerminalStatesHaveNoOutgoingEdges(t *testing.T) {
	terminals := []enums.OrderStatus{
		enums.OrderStatusCompleted,
		enums.OrderStatusCancelled,
		enums.OrderStatusRefunded,
		enums.OrderStatusResolvedBuyer,
		enums.OrderStatusResolvedSeller,
	}
	for _, terminal := range terminals {
		if !terminal.IsTerminal() {
			t.Errorf("%s should be terminal", terminal)
		}
		if targets := transitionTable[terminal]; len(targets) != 0 {
			t.Errorf("terminal %s has outgoing edges %v", terminal, targets)
		}
	}
}
