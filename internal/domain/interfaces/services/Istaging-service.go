package Iservices

// IStagingService writes inbound audio payloads to transient storage for the
// duration of one classification attempt. Release is idempotent; the
// coordinator guarantees it runs on every exit path of an attempt.
type IStagingService interface {
	Stage(payload []byte, callerID int64) (string, error)
	Release(handle string)
}
