package widget

// State is the checkout page's widget lifecycle, mirrored by the page script.
type State string

const (
	StateIdle               State = "idle"
	StateSDKLoading         State = "sdkLoading"
	StateSDKLoaded          State = "sdkLoaded"
	StateWidgetInitializing State = "widgetInitializing"
	StateReady              State = "ready"
	StatePaymentRequested   State = "paymentRequested"
	StateRedirected         State = "redirected"
	StateError              State = "error"
)

// transitions lists the forward moves. Any state may also move to error.
var transitions = map[State][]State{
	StateIdle:               {StateSDKLoading},
	StateSDKLoading:         {StateSDKLoaded},
	StateSDKLoaded:          {StateWidgetInitializing},
	StateWidgetInitializing: {StateReady},
	StateReady:              {StatePaymentRequested},
	StatePaymentRequested:   {StateRedirected},
}

func CanTransition(from, to State) bool {
	if to == StateError {
		return from != StateError
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transitions is the table handed to the page script.
func Transitions() map[State][]State {
	out := make(map[State][]State, len(transitions))
	for k, v := range transitions {
		out[k] = append([]State(nil), v...)
	}
	return out
}
