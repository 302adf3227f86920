package interfaces

// EventPublisher emits best-effort notifications after bookkeeping
// operations. Publish failures must never roll back ledger writes.
type EventPublisher interface {
	Publish(topic string, event any) error
}
