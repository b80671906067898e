// Package progress computes curriculum completion from a user profile and
// the static course catalog.
package progress

import (
	"math"

	"optionsage/internal/catalog"
	"optionsage/internal/models"
)

// Global returns the overall completion percentage: completed modules over
// total catalog modules, rounded to the nearest integer.
func Global(profile models.UserProfile) int {
	total := len(catalog.Courses)
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(len(profile.CompletedModules)) / float64(total) * 100))
}

// LevelCompletion returns a level's completion percentage. A level with no
// catalog modules reports 0.
func LevelCompletion(profile models.UserProfile, level int) int {
	modules := catalog.ByLevel(level)
	if len(modules) == 0 {
		return 0
	}
	completed := 0
	for _, m := range modules {
		if profile.HasCompleted(m.ID) {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(modules)) * 100))
}

// CurrentLevel returns the lowest level that is not fully complete. A
// student with every level complete (or an empty catalog) is at the final
// level.
func CurrentLevel(profile models.UserProfile) int {
	for level := 1; level <= catalog.MaxLevel; level++ {
		modules := catalog.ByLevel(level)
		if len(modules) == 0 {
			continue
		}
		completed := 0
		for _, m := range modules {
			if profile.HasCompleted(m.ID) {
				completed++
			}
		}
		if completed < len(modules) {
			return level
		}
	}
	return catalog.MaxLevel
}

// ContentKind identifies which half of a module the student finished.
type ContentKind string

const (
	ContentSlides ContentKind = "SLIDES"
	ContentVideo  ContentKind = "VIDEO"
)

// ApplyModuleProgress records that the student finished a module's slides or
// video and returns the updated profile. When both halves are done the
// module id is appended to CompletedModules, exactly once, however many
// times either half is re-finished afterwards.
func ApplyModuleProgress(profile models.UserProfile, moduleID string, kind ContentKind) models.UserProfile {
	updated := profile.Clone()
	if updated.ModuleProgress == nil {
		updated.ModuleProgress = make(map[string]models.ModuleProgress)
	}

	current := updated.ModuleProgress[moduleID]
	switch kind {
	case ContentSlides:
		current.Slides = true
	case ContentVideo:
		current.Video = true
	}
	updated.ModuleProgress[moduleID] = current

	if current.Slides && current.Video && !updated.HasCompleted(moduleID) {
		updated.CompletedModules = append(updated.CompletedModules, moduleID)
	}
	return *updated
}
