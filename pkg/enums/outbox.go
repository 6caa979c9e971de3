package enums

// OutboxEventType names the domain events emitted through the outbox.
type OutboxEventType string

const (
	EventOrderPaid       OutboxEventType = "order.paid"
	EventOrderAccepted   OutboxEventType = "order.accepted"
	EventOrderRejected   OutboxEventType = "order.rejected"
	EventOrderInProgress OutboxEventType = "order.in_progress"
	EventOrderShipped    OutboxEventType = "order.shipped"
	EventOrderDelivered  OutboxEventType = "order.delivered"
	EventOrderCompleted  OutboxEventType = "order.completed"
	EventOrderCancelled  OutboxEventType = "order.cancelled"
	EventDisputeOpened   OutboxEventType = "dispute.opened"
	EventDisputeResolved OutboxEventType = "dispute.resolved"
	EventPaymentReceived OutboxEventType = "payment.received"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateOrder   OutboxAggregateType = "order"
	AggregateWallet  OutboxAggregateType = "wallet"
	AggregateDispute OutboxAggregateType = "dispute"
)
