package session

// Notifier receives the transient user-facing notices the session produces
// (connected, reconnecting, gave up, send rejected). Presentation concern,
// injected by the UI collaborator.
type Notifier interface {
	Notify(text string)
	NotifyError(text string)
}

type NopNotifier struct{}

func (NopNotifier) Notify(string)      {}
func (NopNotifier) NotifyError(string) {}
