package dto

import "time"

// StatementData datos para el estado de cuenta en PDF de un socio.
type StatementData struct {
	ClubName    string
	Member      MemberResponse
	Snapshot    SnapshotResponse
	Dues        []DueResponse
	GeneratedAt time.Time
}
