package models

// ModuleProgress tracks partial completion of a course module. A module counts
// as complete only when both sub-flags are true.
type ModuleProgress struct {
	Slides bool `json:"slides"`
	Video  bool `json:"video"`
}

// APIKeys holds optional per-user service keys.
type APIKeys struct {
	Tradier string `json:"tradier,omitempty"`
}

// UserProfile is the singleton local identity and progress record.
type UserProfile struct {
	Username         string                    `json:"username"`
	FriendlyName     string                    `json:"friendlyName"`
	MemberLevel      string                    `json:"memberLevel"`
	CompletedModules []string                  `json:"completedModules"`
	ModuleProgress   map[string]ModuleProgress `json:"moduleProgress,omitempty"`
	APIKeys          *APIKeys                  `json:"apiKeys,omitempty"`
}

// HasCompleted reports membership in the completed-module set.
func (u *UserProfile) HasCompleted(moduleID string) bool {
	for _, id := range u.CompletedModules {
		if id == moduleID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate progress without aliasing
// the stored profile.
func (u *UserProfile) Clone() *UserProfile {
	c := *u
	c.CompletedModules = append([]string(nil), u.CompletedModules...)
	if u.ModuleProgress != nil {
		c.ModuleProgress = make(map[string]ModuleProgress, len(u.ModuleProgress))
		for k, v := range u.ModuleProgress {
			c.ModuleProgress[k] = v
		}
	}
	if u.APIKeys != nil {
		keys := *u.APIKeys
		c.APIKeys = &keys
	}
	return &c
}
