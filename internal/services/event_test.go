package services

import (
	"context"
	"testing"
	"time"

	"github.com/hyphenhq/hyphen/internal/models"
	"github.com/hyphenhq/hyphen/internal/visibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	maya = models.User{ID: "maya", Name: "Maya", Role: models.RoleManager}
	alex = models.User{ID: "alex", Name: "Alex", Role: models.RolePersonal}
	sam  = models.User{ID: "sam", Name: "Sam", Role: models.RolePersonal}
)

func newEvent(title string, vis models.Visibility) *models.Event {
	return &models.Event{
		Title:      title,
		StartTime:  time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 6, 2, 11, 0, 0, 0, time.UTC),
		Type:       models.EventTypeWork,
		Visibility: vis,
	}
}

func TestEventService_CreateStampsCreator(t *testing.T) {
	e := setupEnv(t)
	svc := NewEventService(e.store)
	ctx := context.Background()

	ev := newEvent("standup", models.VisibilityMandatory)
	require.NoError(t, svc.Create(ctx, alex, ev))
	assert.Equal(t, alex.ID, ev.CreatedBy)
	assert.Equal(t, models.SyncStatusPending, ev.SyncStatus)
}

func TestEventService_ManagerOnlyRequiresManager(t *testing.T) {
	e := setupEnv(t)
	svc := NewEventService(e.store)
	ctx := context.Background()

	err := svc.Create(ctx, alex, newEvent("contract review", models.VisibilityManagerOnly))
	require.ErrorIs(t, err, ErrPermission)

	require.NoError(t, svc.Create(ctx, maya, newEvent("contract review", models.VisibilityManagerOnly)))
}

func TestEventService_UpdatePermissions(t *testing.T) {
	e := setupEnv(t)
	svc := NewEventService(e.store)
	ctx := context.Background()

	ev := newEvent("rehearsal", models.VisibilityFYIOnly)
	require.NoError(t, svc.Create(ctx, alex, ev))

	title := "rehearsal (moved)"
	_, err := svc.Update(ctx, sam, ev.ID, models.EventPatch{Title: &title})
	require.ErrorIs(t, err, ErrPermission)

	// Creator and manager may edit.
	updated, err := svc.Update(ctx, alex, ev.ID, models.EventPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)

	title2 := "rehearsal (moved again)"
	_, err = svc.Update(ctx, maya, ev.ID, models.EventPatch{Title: &title2})
	require.NoError(t, err)

	// Raising visibility to manager_only needs the manager role even for
	// the creator.
	mo := models.VisibilityManagerOnly
	_, err = svc.Update(ctx, alex, ev.ID, models.EventPatch{Visibility: &mo})
	require.ErrorIs(t, err, ErrPermission)
	_, err = svc.Update(ctx, maya, ev.ID, models.EventPatch{Visibility: &mo})
	require.NoError(t, err)
}

func TestEventService_DeletePermissions(t *testing.T) {
	e := setupEnv(t)
	svc := NewEventService(e.store)
	ctx := context.Background()

	ev := newEvent("dentist", models.VisibilityFYIOnly)
	require.NoError(t, svc.Create(ctx, alex, ev))

	require.ErrorIs(t, svc.Delete(ctx, sam, ev.ID), ErrPermission)
	require.NoError(t, svc.Delete(ctx, alex, ev.ID))

	// Absent ids are a no-op regardless of actor.
	require.NoError(t, svc.Delete(ctx, sam, ev.ID))
}

func TestEventService_ListAppliesVisibilityAndShield(t *testing.T) {
	e := setupEnv(t)
	svc := NewEventService(e.store)
	ctx := context.Background()

	private := newEvent("board call", models.VisibilityManagerOnly)
	require.NoError(t, svc.Create(ctx, maya, private))

	shared := newEvent("tour kickoff", models.VisibilityMandatory)
	require.NoError(t, svc.Create(ctx, maya, shared))

	therapy := newEvent("therapy", models.VisibilityMandatory)
	therapy.Type = models.EventTypePersonal
	therapy.IsPrivacyShielded = true
	require.NoError(t, svc.Create(ctx, sam, therapy))

	noAllowlist := func(string) []string { return nil }

	// The manager sees everything but shielded details of others.
	got, err := svc.List(ctx, maya, noAllowlist)
	require.NoError(t, err)
	require.Len(t, got, 3)
	byID := map[string]models.Event{}
	for _, ev := range got {
		byID[ev.ID] = ev
	}
	assert.Equal(t, "board call", byID[private.ID].Title)
	assert.Equal(t, visibility.RedactedTitle, byID[therapy.ID].Title)

	// A personal assistant misses manager_only events entirely.
	got, err = svc.List(ctx, alex, noAllowlist)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, ev := range got {
		assert.NotEqual(t, private.ID, ev.ID)
	}

	// The shield owner sees their own details.
	got, err = svc.List(ctx, sam, noAllowlist)
	require.NoError(t, err)
	for _, ev := range got {
		if ev.ID == therapy.ID {
			assert.Equal(t, "therapy", ev.Title)
		}
	}
}

func TestEventService_ListRange(t *testing.T) {
	e := setupEnv(t)
	svc := NewEventService(e.store)
	ctx := context.Background()

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ev := newEvent("slot", models.VisibilityMandatory)
		ev.StartTime = day.AddDate(0, 0, i)
		ev.EndTime = ev.StartTime.Add(time.Hour)
		require.NoError(t, svc.Create(ctx, maya, ev))
	}

	got, err := svc.ListRange(ctx, maya, day, day.AddDate(0, 0, 2), nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
