package jobharvest

// StrategyKind selects which context-resolution and readiness-waiting policy
// applies to a career page.
type StrategyKind string

// The closed set of extraction strategies.
const (
	// KindDefault handles standard server-rendered HTML.
	KindDefault StrategyKind = "default"

	// KindEmbeddedBoard handles pages embedding a known third-party job
	// board inside an iframe.
	KindEmbeddedBoard StrategyKind = "embedded_board"

	// KindClientRendered handles single-page applications that render job
	// content client-side after bootstrap.
	KindClientRendered StrategyKind = "client_rendered"

	// KindDynamicHydration handles pages that defer script execution until
	// user interaction and hydrate content afterwards.
	KindDynamicHydration StrategyKind = "dynamic_hydration"

	// KindGenericIframe handles pages embedding content in an arbitrary
	// iframe.
	KindGenericIframe StrategyKind = "generic_iframe"
)

// Valid reports whether k is one of the closed set of strategy kinds.
func (k StrategyKind) Valid() bool {
	switch k {
	case KindDefault, KindEmbeddedBoard, KindClientRendered, KindDynamicHydration, KindGenericIframe:
		return true
	}
	return false
}

// SelectorRole names the semantic role a selector group serves.
type SelectorRole string

// Selector roles.
const (
	RoleJobBoard SelectorRole = "job_board" // the listing container on a career page
	RoleJobCard  SelectorRole = "job_card"  // the detail content on a posting page
)

// Valid reports whether r is a recognized selector role.
func (r SelectorRole) Valid() bool {
	return r == RoleJobBoard || r == RoleJobCard
}

// SelectorGroup describes which DOM selectors belong to a semantic role and
// which extraction strategy applies to them. Constructed once from external
// configuration and immutable thereafter.
type SelectorGroup struct {
	Kind      StrategyKind `yaml:"strategy" json:"strategy"`
	Role      SelectorRole `yaml:"role" json:"role"`
	Selectors []string     `yaml:"selectors" json:"selectors"`
}

// Validate returns an error if the group is incomplete or names an unknown
// strategy kind or role. Validation happens before any network activity.
func (g *SelectorGroup) Validate() error {
	if !g.Kind.Valid() {
		return Errorf(EINVALID, "unknown strategy kind %q", string(g.Kind))
	}
	if !g.Role.Valid() {
		return Errorf(EINVALID, "unknown selector role %q", string(g.Role))
	}
	if len(g.Selectors) == 0 {
		return Errorf(EINVALID, "selector group for role %q has no selectors", string(g.Role))
	}
	for _, s := range g.Selectors {
		if s == "" {
			return Errorf(EINVALID, "selector group for role %q contains an empty selector", string(g.Role))
		}
	}
	return nil
}

// SelectorConfig is a company's complete selector configuration: one group
// per semantic role.
type SelectorConfig struct {
	JobBoard SelectorGroup `yaml:"job_board" json:"jobBoard"`
	JobCard  SelectorGroup `yaml:"job_card" json:"jobCard"`
}

// Validate returns an error unless both roles are present and valid.
func (c *SelectorConfig) Validate() error {
	if c.JobBoard.Role == "" {
		c.JobBoard.Role = RoleJobBoard
	}
	if c.JobCard.Role == "" {
		c.JobCard.Role = RoleJobCard
	}
	if c.JobBoard.Role != RoleJobBoard {
		return Errorf(EINVALID, "job board group declares role %q", string(c.JobBoard.Role))
	}
	if c.JobCard.Role != RoleJobCard {
		return Errorf(EINVALID, "job card group declares role %q", string(c.JobCard.Role))
	}
	if err := c.JobBoard.Validate(); err != nil {
		return err
	}
	return c.JobCard.Validate()
}

// Extraction context names reported in ElementResult.Context.
const (
	ContextMain   = "main"   // element found in the main document
	ContextIframe = "iframe" // element found in a resolved frame
	ContextError  = "error"  // extraction failed before the element was resolved
)

// ElementResult is the uniform outcome of querying one selector during one
// extraction attempt. Absence is a normal, representable outcome: Found is
// false and Err describes why, but no error is raised.
type ElementResult struct {
	Selector string `json:"selector"`
	Found    bool   `json:"found"`
	Context  string `json:"context"`
	Text     string `json:"text,omitempty"`
	HTML     string `json:"html,omitempty"`
	Err      string `json:"error,omitempty"`
}
