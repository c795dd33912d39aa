package visibility

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hyphenhq/hyphen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	manager   = models.User{ID: "maya", Name: "Maya", Role: models.RoleManager}
	assistant = models.User{ID: "alex", Name: "Alex", Role: models.RolePersonal}
	partner   = models.User{ID: "sam", Name: "Sam", Role: models.RolePersonal}
)

func event(id, createdBy string, vis models.Visibility, opts ...func(*models.Event)) models.Event {
	e := models.Event{
		Title:      "Event " + id,
		StartTime:  time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
		Type:       models.EventTypeWork,
		Visibility: vis,
		CreatedBy:  createdBy,
	}
	e.ID = id
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

func shielded(e *models.Event) {
	e.Type = models.EventTypePersonal
	e.IsPrivacyShielded = true
	e.Description = "therapy session"
	e.ModuleID = "task-9"
	e.ModuleType = "tasks"
}

func allowOnly(viewerIDs ...string) PreferenceSource {
	return func(string) []string { return viewerIDs }
}

func TestFilterForViewer_VisibilityLevels(t *testing.T) {
	events := []models.Event{
		event("e1", manager.ID, models.VisibilityManagerOnly),
		event("e2", manager.ID, models.VisibilityFYIOnly),
		event("e3", manager.ID, models.VisibilityMandatory),
	}

	ids := func(es []models.Event) []string {
		var out []string
		for _, e := range es {
			out = append(out, e.ID)
		}
		return out
	}

	assert.Equal(t, []string{"e1", "e2", "e3"}, ids(FilterForViewer(events, manager, nil)))
	assert.Equal(t, []string{"e2", "e3"}, ids(FilterForViewer(events, assistant, nil)))
}

func TestFilterForViewer_ManagerSeesOwnEventsRegardless(t *testing.T) {
	// A manager's own event is visible to them even with an unknown
	// visibility value.
	e := event("own", manager.ID, models.Visibility("garbled"))
	got := FilterForViewer([]models.Event{e}, manager, nil)
	require.Len(t, got, 1)

	// The same malformed value hides the event from everyone else.
	got = FilterForViewer([]models.Event{e}, assistant, nil)
	assert.Empty(t, got)
}

func TestFilterForViewer_PrivacyShieldRedaction(t *testing.T) {
	e := event("p1", partner.ID, models.VisibilityMandatory, shielded)

	got := FilterForViewer([]models.Event{e}, assistant, allowOnly())
	require.Len(t, got, 1)
	r := got[0]
	assert.Equal(t, RedactedTitle, r.Title)
	assert.Empty(t, r.Description)
	assert.Empty(t, r.ModuleID)
	assert.Empty(t, r.ModuleType)
	// Times survive redaction so the slot still blocks the calendar.
	assert.Equal(t, e.StartTime, r.StartTime)
	assert.Equal(t, e.EndTime, r.EndTime)
	assert.Equal(t, e.ID, r.ID)
}

func TestFilterForViewer_ShieldExemptions(t *testing.T) {
	e := event("p1", partner.ID, models.VisibilityMandatory, shielded)

	t.Run("owner sees own details", func(t *testing.T) {
		got := FilterForViewer([]models.Event{e}, partner, allowOnly())
		require.Len(t, got, 1)
		assert.Equal(t, e.Title, got[0].Title)
	})

	t.Run("allowlisted viewer sees details", func(t *testing.T) {
		got := FilterForViewer([]models.Event{e}, assistant, allowOnly(assistant.ID))
		require.Len(t, got, 1)
		assert.Equal(t, e.Title, got[0].Title)
	})

	t.Run("manager outside allowlist is redacted too", func(t *testing.T) {
		got := FilterForViewer([]models.Event{e}, manager, allowOnly())
		require.Len(t, got, 1)
		assert.Equal(t, RedactedTitle, got[0].Title)
	})

	t.Run("nil preference source redacts", func(t *testing.T) {
		got := FilterForViewer([]models.Event{e}, assistant, nil)
		require.Len(t, got, 1)
		assert.Equal(t, RedactedTitle, got[0].Title)
	})

	t.Run("unshielded personal event passes through", func(t *testing.T) {
		open := event("p2", partner.ID, models.VisibilityMandatory)
		open.Type = models.EventTypePersonal
		got := FilterForViewer([]models.Event{open}, assistant, allowOnly())
		require.Len(t, got, 1)
		assert.Equal(t, open.Title, got[0].Title)
	})
}

func TestFilterForViewer_IsPure(t *testing.T) {
	events := []models.Event{
		event("e1", manager.ID, models.VisibilityManagerOnly),
		event("p1", partner.ID, models.VisibilityMandatory, shielded),
		event("e2", assistant.ID, models.VisibilityFYIOnly),
	}
	snapshot := make([]models.Event, len(events))
	copy(snapshot, events)

	first := FilterForViewer(events, assistant, allowOnly())
	second := FilterForViewer(events, assistant, allowOnly())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same input produced different output (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(snapshot, events); diff != "" {
		t.Errorf("input slice was mutated (-before +after):\n%s", diff)
	}
}

func TestCanEditEvent(t *testing.T) {
	e := event("e1", assistant.ID, models.VisibilityFYIOnly)

	assert.True(t, CanEditEvent(e, assistant), "creator edits own event")
	assert.True(t, CanEditEvent(e, manager), "manager edits any event")
	assert.False(t, CanEditEvent(e, partner), "others cannot edit")
}

func TestCanViewEventDetails(t *testing.T) {
	shieldedEvent := event("p1", partner.ID, models.VisibilityMandatory, shielded)
	managerOnly := event("e1", manager.ID, models.VisibilityManagerOnly)

	assert.True(t, CanViewEventDetails(shieldedEvent, partner, allowOnly()))
	assert.False(t, CanViewEventDetails(shieldedEvent, assistant, allowOnly()))
	assert.True(t, CanViewEventDetails(shieldedEvent, assistant, allowOnly(assistant.ID)))
	assert.False(t, CanViewEventDetails(managerOnly, assistant, nil))
	assert.True(t, CanViewEventDetails(managerOnly, manager, nil))
}
