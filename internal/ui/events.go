package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"facetgrip/internal/eventbus"
)

// Forward relays bus events addressed to controllerID into the program.
// send is usually (*tea.Program).Send. The returned function unsubscribes.
func Forward(bus eventbus.EventBus, controllerID string, send func(tea.Msg)) func() {
	unsubscribers := []func(){
		bus.Subscribe(eventbus.EventResultPublished, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.ResultPublishedEvent); ok && event.Result.ControllerID == controllerID {
				send(ResultMsg{Result: event.Result})
			}
		}),
		bus.Subscribe(eventbus.EventCollectionReconciled, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.CollectionReconciledEvent); ok && event.ControllerID == controllerID {
				send(ItemsChangedMsg{Source: "reconciled"})
			}
		}),
		bus.Subscribe(eventbus.EventItemsChanged, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.ItemsChangedEvent); ok && (event.ControllerID == "" || event.ControllerID == controllerID) {
				send(ItemsChangedMsg{Source: event.Source})
			}
		}),
		bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.ErrorEvent); ok {
				send(ErrorMsg{Message: event.Message, Err: event.Err})
			}
		}),
	}

	return func() {
		for _, unsubscribe := range unsubscribers {
			unsubscribe()
		}
	}
}
