// Package rain implements the particle simulation behind the digital rain.
//
// An [Engine] owns the particle list and advances it one tick at a time:
//
//   - [Engine.Reconcile]: density controller, grows or shrinks the list to a target count
//   - [Engine.Step]: moves every particle, refreshes glyphs and applies faucet policy
//   - [Engine.SetFaucet]: opens or closes the faucet that drives [FaucetState]
//
// # Thread Safety
//
// Engine instances are NOT thread-safe. Each host drives a single engine from
// its frame callback; independent engines may run side by side.
package rain
