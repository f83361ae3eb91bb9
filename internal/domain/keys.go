package domain

import (
	"encoding/binary"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/blake2b"
)

// RecordKey derives the storage key of a record from its natural identifiers.
// The same inputs always address the same record.
func RecordKey(entity string, owner string, counter uint64) string {
	h, _ := blake2b.New256(nil)
	writePart(h, []byte(entity))
	writePart(h, []byte(owner))
	var c [8]byte
	binary.BigEndian.PutUint64(c[:], counter)
	h.Write(c[:])
	return hex.EncodeToString(h.Sum(nil))
}

// length prefix keeps ("ab","c") and ("a","bc") apart
func writePart(w io.Writer, part []byte) {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(part)))
	w.Write(l[:])
	w.Write(part)
}

func EscrowKey(client string, id uint64) string {
	return RecordKey("escrow", client, id)
}

func DisputeKey(id uint64) string {
	return RecordKey("dispute", "", id)
}

func PanelVoteKey(disputeID uint64, voter string) string {
	return RecordKey("panel_vote", voter, disputeID)
}

func ProposalKey(id uint64) string {
	return RecordKey("proposal", "", id)
}

func VoteKey(proposalID uint64, voter string) string {
	return RecordKey("vote", voter, proposalID)
}
