package models

// VerdictStatus is the terminal state of a retrospective exit evaluation.
type VerdictStatus string

const (
	VerdictPending         VerdictStatus = "PENDING"
	VerdictDataUnavailable VerdictStatus = "DATA_UNAVAILABLE"
	VerdictEvaluated       VerdictStatus = "EVALUATED"
)

// ExitClassification labels how an exit compares against the price a fixed
// number of days later.
type ExitClassification string

const (
	ExitPremature ExitClassification = "PREMATURE_EXIT"
	ExitWellTimed ExitClassification = "WELL_TIMED_EXIT"
	ExitNeutral   ExitClassification = "NEUTRAL"
)

// Verdict is the ephemeral result of evaluating one closed trade's exit
// timing. Never persisted; recomputed on demand.
type Verdict struct {
	TradeID        string
	Status         VerdictStatus
	PercentMissed  float64 // signed, percent points, 2dp
	Classification ExitClassification
	DaysRemaining  int // set while Pending on a future target date
	Note           string
}
