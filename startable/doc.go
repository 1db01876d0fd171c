// Package startable eagerly resolves container components that were marked
// as startable when they were bound.
//
// Mark a binding at registration time:
//
//	digo.BindSingletonIn[Poller](c, &poller{}, startable.AsStartable())
//
// and start everything marked once the container is built:
//
//	starter, err := startable.New(c)
//	if err != nil {
//		return err
//	}
//	if err := starter.Start(); err != nil {
//		return err
//	}
//
// Components are resolved one at a time in the order the container enumerates
// its registrations. The first resolve error stops the pass and is returned
// as is; components resolved before it stay resolved. Instances are not
// cached by the Starter, so a second Start resolves again and the container's
// scope rules decide whether that builds a new instance.
//
// The package does no locking of its own. Calling Start from several
// goroutines is as safe as the container's ComponentRegistrations and
// ResolveComponent are.
package startable
