package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventResultPublished      EventType = "ResultPublished"
	EventItemsChanged         EventType = "ItemsChanged"
	EventFilterReset          EventType = "FilterReset"
	EventCollectionReconciled EventType = "CollectionReconciled"
	EventError                EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ResultPublishedEvent is emitted after every evaluation pass
type ResultPublishedEvent struct {
	Result Result
}

func (e ResultPublishedEvent) Type() EventType { return EventResultPublished }

// ItemsChangedEvent signals that the host finished adding or removing items.
// An empty ControllerID addresses every controller on the bus.
type ItemsChangedEvent struct {
	ControllerID string
	Source       string
}

func (e ItemsChangedEvent) Type() EventType { return EventItemsChanged }

// FilterResetEvent is emitted when a controller clears all constraints
type FilterResetEvent struct {
	ControllerID string
}

func (e FilterResetEvent) Type() EventType { return EventFilterReset }

// CollectionReconciledEvent is emitted when the reconciliation poll detected
// a cardinality change the push channel did not report
type CollectionReconciledEvent struct {
	ControllerID  string
	PreviousCount int
	CurrentCount  int
}

func (e CollectionReconciledEvent) Type() EventType { return EventCollectionReconciled }

// ErrorEvent is emitted when a host collaborator fails in the background
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
