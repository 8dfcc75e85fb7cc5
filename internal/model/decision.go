package model

// DenyReason identifies which check rejected a merge.
type DenyReason string

const (
	DenyCPU            DenyReason = "cpu"
	DenyMemory         DenyReason = "memory"
	DenyHeap           DenyReason = "heap"
	DenyGCActive       DenyReason = "gc_active"
	DenyNoMergeWorkers DenyReason = "no_merge_workers"

	DenyNotPrimary       DenyReason = "not_primary"
	DenyStatsUnavailable DenyReason = "stats_unavailable"
	DenySegmentCount     DenyReason = "segment_count"
	DenyTranslogRecent   DenyReason = "translog_recent"
	DenySegmentSize      DenyReason = "segment_size"

	DenyRemoteStoreDisabled DenyReason = "remote_store_disabled"
	DenyNoWarmNode          DenyReason = "no_warm_node"
)

// Decision is the outcome of a single eligibility check. Pure value,
// no identity; Reason is empty when Allowed.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with the triggering reason.
func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}
