// Package visibility decides which events a viewer may see and which
// details the privacy shield redacts. Everything here is a pure
// function: inputs are never mutated and well-formed input never fails.
package visibility

import "github.com/hyphenhq/hyphen/internal/models"

// RedactedTitle replaces a privacy-shielded event's title for viewers
// outside the owner's allowlist.
const RedactedTitle = "Busy"

// PreferenceSource looks up an owner's privacy-shield allowlist: the
// viewer ids permitted to see details of shielded personal events.
type PreferenceSource func(ownerID string) []string

// FilterForViewer returns the events viewer may see, privacy-shield
// redaction applied. Redacted events are fresh copies; included
// unredacted events are returned as-is but never modified.
func FilterForViewer(events []models.Event, viewer models.User, prefs PreferenceSource) []models.Event {
	result := make([]models.Event, 0, len(events))
	for _, e := range events {
		if !includeForViewer(e, viewer) {
			continue
		}
		if shieldApplies(e, viewer, prefs) {
			result = append(result, redact(e))
			continue
		}
		result = append(result, e)
	}
	return result
}

func includeForViewer(e models.Event, viewer models.User) bool {
	// Managers always see their own events.
	if viewer.Role == models.RoleManager && e.CreatedBy == viewer.ID {
		return true
	}
	switch e.Visibility {
	case models.VisibilityManagerOnly:
		return viewer.Role == models.RoleManager
	case models.VisibilityFYIOnly, models.VisibilityMandatory:
		return true
	default:
		// Malformed visibility is rejected at the store write boundary;
		// here we simply exclude.
		return false
	}
}

// shieldApplies reports whether the privacy shield redacts e for this
// viewer: a shielded personal event owned by someone else, with the
// viewer absent from the owner's allowlist.
func shieldApplies(e models.Event, viewer models.User, prefs PreferenceSource) bool {
	if e.Type != models.EventTypePersonal || !e.IsPrivacyShielded {
		return false
	}
	if e.CreatedBy == viewer.ID {
		return false
	}
	if prefs == nil {
		return true
	}
	for _, allowed := range prefs(e.CreatedBy) {
		if allowed == viewer.ID {
			return false
		}
	}
	return true
}

func redact(e models.Event) models.Event {
	redacted := e
	redacted.Title = RedactedTitle
	redacted.Description = ""
	redacted.ModuleID = ""
	redacted.ModuleType = ""
	return redacted
}

// CanEditEvent reports whether user may modify the event: managers and
// the event's creator.
func CanEditEvent(e models.Event, user models.User) bool {
	return user.Role == models.RoleManager || e.CreatedBy == user.ID
}

// CanViewEventDetails reports whether user sees the event's real
// details rather than a redacted placeholder.
func CanViewEventDetails(e models.Event, user models.User, prefs PreferenceSource) bool {
	if !includeForViewer(e, user) {
		return false
	}
	return !shieldApplies(e, user, prefs)
}
