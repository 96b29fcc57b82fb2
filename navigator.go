package goSession

// Navigator is the kit's only hook into the host application's routing. It is
// invoked for the transitions the kit drives itself: forced re-authentication,
// post-login, post-reset, and a missing reset context.
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to the [Navigator] interface.
type NavigatorFunc func(route string)

// Navigate describes the navigate operation and its observable behavior.
//
// Navigate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f NavigatorFunc) Navigate(route string) {
	if f != nil {
		f(route)
	}
}

// NoOpNavigator ignores all navigation requests. It is the default for
// embedders that drive routing entirely from state subscriptions.
type NoOpNavigator struct{}

// Navigate describes the navigate operation and its observable behavior.
//
// Navigate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (NoOpNavigator) Navigate(string) {}
