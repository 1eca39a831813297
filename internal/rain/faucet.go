package rain

// FaucetState is derived from the faucet flag and the particle count.
type FaucetState int

const (
	Flowing FaucetState = iota
	Draining
	IdleEmpty
)

func (s FaucetState) String() string {
	switch s {
	case Flowing:
		return "flowing"
	case Draining:
		return "draining"
	case IdleEmpty:
		return "idle"
	default:
		return "unknown"
	}
}

func deriveState(faucetOn bool, count int) FaucetState {
	if faucetOn {
		return Flowing
	}
	if count == 0 {
		return IdleEmpty
	}
	return Draining
}

// State reports the current faucet state.
func (e *Engine) State() FaucetState { return deriveState(e.faucetOn, len(e.particles)) }

// IdleIndicatorVisible is true only when the faucet is off and the field is empty.
func (e *Engine) IdleIndicatorVisible() bool { return e.State() == IdleEmpty }

func (e *Engine) FaucetOn() bool { return e.faucetOn }

// SetFaucet opens or closes the faucet. Opening restarts the refill cadence so
// the first refill particle appears RefillEvery ticks later.
func (e *Engine) SetFaucet(on bool) {
	if on == e.faucetOn {
		return
	}
	from := e.State()
	e.faucetOn = on
	if on {
		e.refillCounter = 0
	}
	e.notify(from)
}

func (e *Engine) notify(from FaucetState) {
	to := e.State()
	if from != to && e.OnTransition != nil {
		e.OnTransition(from, to)
	}
}
