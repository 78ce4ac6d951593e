package tui

type state int

const (
	runningState state = iota
	cancellingState
	doneState
	errorState
)
