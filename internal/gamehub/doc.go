// Package gamehub pairs anonymous connections into two-player sessions and
// relays their actions.
//
// All mutable broker state (known clients, the waiting pool and the session
// registry) is owned by the goroutine running ManagerService.Run. Transport
// goroutines talk to it through Register, Unregister and OnMessage, which
// hand work to that loop over channels. Nothing the loop does may block:
// outbound delivery goes through Client.Send, which never waits, and
// persistence goes through a Recorder, which never waits.
package gamehub
