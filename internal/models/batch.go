package models

// Batch is a student cohort that attends events as a unit.
type Batch struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Size int    `db:"size" json:"size"`
	// SortOrder fixes the pairing order used by the Preparation Engine
	// (batches are paired (b0,b1), (b2,b3), ... in this order). It defaults
	// to insertion order / id when unset, per the Open Question in §9.
	SortOrder int `db:"sort_order" json:"sort_order"`
}
