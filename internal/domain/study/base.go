package study

import "github.com/google/uuid"

// ensureID assigns a fresh id when the caller left it empty. Postgres has a
// uuid default on the column but SQLite does not, so ids are minted client side.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
