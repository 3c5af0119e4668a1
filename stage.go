package jobharvest

// Stage tags a phase of the pipeline. A job carries a completion mark per
// stage; each stage reads its inputs from storage (jobs where the previous
// stage is marked and its own is not) and durably records its outcomes
// before the next stage begins.
type Stage string

// Pipeline stages in execution order.
const (
	StageListings Stage = "listings" // extract job listings from career pages
	StageDetails  Stage = "details"  // extract per-posting detail content
	StageSkills   Stage = "skills"   // resolve technology labels
	StagePublish  Stage = "publish"  // publish completed jobs to the catalog
)

// Valid reports whether s is a recognized stage tag.
func (s Stage) Valid() bool {
	switch s {
	case StageListings, StageDetails, StageSkills, StagePublish:
		return true
	}
	return false
}

// StageSummary reports the outcome counts of one stage run.
type StageSummary struct {
	Stage     Stage `json:"stage"`
	Processed int   `json:"processed"`
	Succeeded int   `json:"succeeded"`
	Failed    int   `json:"failed"`
	Jobs      int   `json:"jobs"`
}
