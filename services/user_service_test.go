package services

import (
	"testing"

	"prompthub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userFixture struct {
	userRepo   *fakeUserRepo
	promptRepo *fakePromptRepo
	svc        UserService
}

func newUserFixture() *userFixture {
	f := &userFixture{
		userRepo:   newFakeUserRepo(),
		promptRepo: newFakePromptRepo(),
	}
	f.svc = NewUserService(f.userRepo, f.promptRepo)
	return f
}

func (f *userFixture) addUser(username string) *models.User {
	user := &models.User{Username: username, Email: username + "@example.com"}
	_ = f.userRepo.Create(user)
	return user
}

func (f *userFixture) addPrompt(authorID uint, stats models.PromptStats) *models.Prompt {
	prompt := &models.Prompt{Title: "p", AuthorID: authorID, Stats: stats}
	_ = f.promptRepo.Create(prompt)
	return prompt
}

func TestGetProfileWeightedRating(t *testing.T) {
	f := newUserFixture()
	user := f.addUser("alice")

	// 10 ratings at 5.0 and 2 ratings at 2.0
	f.addPrompt(user.ID, models.PromptStats{Usage: 7, AvgRating: 5, RatingsCount: 10})
	f.addPrompt(user.ID, models.PromptStats{Usage: 3, AvgRating: 2, RatingsCount: 2})

	profile, err := f.svc.GetProfile(user.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 2, profile.Stats.TotalPrompts)
	assert.EqualValues(t, 10, profile.Stats.TotalUses)
	assert.EqualValues(t, 12, profile.Stats.TotalRatings)
	assert.InDelta(t, 4.5, profile.Stats.AvgRating, 0.0001)
}

func TestGetProfileUnratedIsZero(t *testing.T) {
	f := newUserFixture()
	user := f.addUser("alice")
	f.addPrompt(user.ID, models.PromptStats{Usage: 4})

	profile, err := f.svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Zero(t, profile.Stats.AvgRating)
}

func TestGetProfileSkipsDeletedPrompts(t *testing.T) {
	f := newUserFixture()
	user := f.addUser("alice")

	f.addPrompt(user.ID, models.PromptStats{Usage: 5})
	deleted := f.addPrompt(user.ID, models.PromptStats{Usage: 100})
	deleted.IsDeleted = true
	require.NoError(t, f.promptRepo.Update(deleted))

	profile, err := f.svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.Stats.TotalPrompts)
	assert.EqualValues(t, 5, profile.Stats.TotalUses)
}

func TestGetProfileUnknownUser(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.GetProfile(42)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUpdateProfileUsernameUniqueness(t *testing.T) {
	f := newUserFixture()
	alice := f.addUser("alice")
	f.addUser("bob")

	taken := "bob"
	_, err := f.svc.UpdateProfile(alice.ID, models.UpdateProfileRequest{Username: &taken})
	assert.ErrorIs(t, err, models.ErrUsernameTaken)

	// Re-submitting your own name is a no-op, not a conflict
	same := "alice"
	updated, err := f.svc.UpdateProfile(alice.ID, models.UpdateProfileRequest{Username: &same})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
}

func TestUpdateProfilePatchesFields(t *testing.T) {
	f := newUserFixture()
	alice := f.addUser("alice")

	bio := "prompt engineer"
	updated, err := f.svc.UpdateProfile(alice.ID, models.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "prompt engineer", updated.Bio)
	assert.Equal(t, "alice", updated.Username)

	empty := ""
	_, err = f.svc.UpdateProfile(alice.ID, models.UpdateProfileRequest{Username: &empty})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestListForkedOnlyReturnsForks(t *testing.T) {
	f := newUserFixture()
	user := f.addUser("alice")

	f.addPrompt(user.ID, models.PromptStats{})
	original := f.addPrompt(user.ID, models.PromptStats{})
	fork := &models.Prompt{Title: "fork", AuthorID: user.ID, OriginalPromptID: &original.ID}
	require.NoError(t, f.promptRepo.Create(fork))

	forks, total, err := f.svc.ListForked(user.ID, models.Pagination{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, forks, 1)
	assert.Equal(t, fork.ID, forks[0].ID)
}

func TestDeletePromptOwnerOnly(t *testing.T) {
	f := newUserFixture()
	alice := f.addUser("alice")
	prompt := f.addPrompt(alice.ID, models.PromptStats{})

	err := f.svc.DeletePrompt(prompt.ID, alice.ID+1)
	assert.ErrorIs(t, err, models.ErrForbidden)

	require.NoError(t, f.svc.DeletePrompt(prompt.ID, alice.ID))

	stored, _ := f.promptRepo.GetByID(prompt.ID)
	assert.True(t, stored.IsDeleted)

	// Deleting twice reads as gone
	err = f.svc.DeletePrompt(prompt.ID, alice.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
