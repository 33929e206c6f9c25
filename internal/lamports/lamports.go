// Package lamports converts between the ledger's base unit and SOL for
// prompts and display.
package lamports

import "fmt"

// PerSOL is the number of lamports in one SOL.
const PerSOL uint64 = 1_000_000_000

// ToSOL converts a lamport amount to SOL.
func ToSOL(lamports uint64) float64 {
	return float64(lamports) / float64(PerSOL)
}

// FromSOL converts a SOL amount to lamports, truncating sub-lamport dust.
func FromSOL(sol float64) uint64 {
	return uint64(sol * float64(PerSOL))
}

// FormatSOL renders a lamport amount as a SOL string for messages.
func FormatSOL(lamports uint64) string {
	return fmt.Sprintf("%.9f SOL", ToSOL(lamports))
}
