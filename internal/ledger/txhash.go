package ledger

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/sha3"

	id "skillpass/pkg/domain"
)

// NewTxHash produces a transaction hash receipt for a ledger write. Callers
// that retried a write get distinct receipts for distinct applications, so
// the hash mixes in a random nonce alongside the operation and record ID.
func NewTxHash(op string, credID id.CredentialID) string {
	nonce := uuid.New()

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(credID))

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(op))
	h.Write(buf[:])
	h.Write(nonce[:])

	return "0x" + hex.EncodeToString(h.Sum(nil))
}
