package domain

// SweepResult reports one pass of the status sweeper over one document family.
type SweepResult struct {
	Kind     DocumentType `json:"kind"`
	Examined int          `json:"examined"`
	Updated  int          `json:"updated"`
	Failed   int          `json:"failed"`
}
