package proto

// Client packet kinds (§4.6.1).
const (
	ClientHello byte = 0
	ClientQuery byte = 1
	ClientData  byte = 2
	ClientCancel byte = 3
	ClientPing  byte = 4
)

// Server packet kinds (§4.6.1).
const (
	ServerHello                 byte = 0
	ServerData                  byte = 1
	ServerException             byte = 2
	ServerProgress              byte = 3
	ServerPong                  byte = 4
	ServerEndOfStream           byte = 5
	ServerProfileInfo           byte = 6
	ServerTotals                byte = 7
	ServerExtremes              byte = 8
	ServerTablesStatusResponse  byte = 9
	ServerLog                   byte = 10
	ServerTableColumns          byte = 11
	ServerPartUUIDs             byte = 12
	ServerReadTaskRequest       byte = 13
	ServerProfileEvents         byte = 14
)

// Query processing stages (§6). The client always sends Complete.
const (
	StageFetchColumns       uint64 = 0
	StageWithMergeableState uint64 = 1
	StageComplete           uint64 = 2
)

// Revision gating constants (§4.6.2, §9 "Design Notes").
const (
	// MinClientRevision is the lowest protocol revision this client speaks;
	// it gates every revision-dependent field listed below.
	MinClientRevision = 54448

	RevisionServerTimezone      = 54058
	RevisionDisplayName        = 54372
	RevisionInterserverSecret  = 54441
	RevisionOpenTelemetry      = 54442
)

// gate reports whether a revision-gated field should be emitted/parsed
// given the negotiated (min of client and server) revision.
func gate(negotiated, threshold int) bool {
	return negotiated >= threshold
}
