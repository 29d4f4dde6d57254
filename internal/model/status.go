package model

type LoadState string

const (
	LoadStateIdle    LoadState = "IDLE"
	LoadStateLoading LoadState = "LOADING"
	LoadStateError   LoadState = "ERROR"
)

// Status is the fetch status the shell shows next to the table.
type Status struct {
	State   LoadState
	Message string
}

func (s Status) Loading() bool {
	return s.State == LoadStateLoading
}

func (s Status) Failed() bool {
	return s.State == LoadStateError
}
