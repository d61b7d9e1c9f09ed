package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteworks/internal/models"
)

func newTestProjectService() (*ProjectService, *fakeProjectStore, *fakeUserStore) {
	store := newFakeProjectStore()
	users := newFakeUserStore()
	return NewProjectService(store, users, nil), store, users
}

func projectReq(name string) *models.ProjectRequest {
	return &models.ProjectRequest{Name: name, Location: "Block 4"}
}

func addMemberReq(userID int) *models.AddMemberRequest {
	return &models.AddMemberRequest{UserID: userID}
}

func TestProjectCreateAddsOwnerAsMember(t *testing.T) {
	svc, _, users := newTestProjectService()
	owner := seedUser(users, testPhone)

	p, err := svc.Create(owner.ID, projectReq("Riverside Tower"))
	require.NoError(t, err)
	require.NotZero(t, p.ID)

	members, err := svc.ListMembers(p.ID, owner.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, owner.ID, members[0].UserID)
	assert.Equal(t, "owner", members[0].Role)
}

func TestProjectAddMemberUnknownUser(t *testing.T) {
	svc, _, users := newTestProjectService()
	owner := seedUser(users, testPhone)

	p, err := svc.Create(owner.ID, projectReq("Riverside Tower"))
	require.NoError(t, err)

	err = svc.AddMember(p.ID, owner.ID, addMemberReq(9999))
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NotErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectAddMemberRequiresOwner(t *testing.T) {
	svc, _, users := newTestProjectService()
	owner := seedUser(users, testPhone)
	other := seedUser(users, "+15557654321")

	p, err := svc.Create(owner.ID, projectReq("Riverside Tower"))
	require.NoError(t, err)

	err = svc.AddMember(p.ID, other.ID, addMemberReq(other.ID))
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestProjectGetRequiresMembership(t *testing.T) {
	svc, _, users := newTestProjectService()
	owner := seedUser(users, testPhone)
	member := seedUser(users, "+15557654321")
	stranger := seedUser(users, "+15550000001")

	p, err := svc.Create(owner.ID, projectReq("Riverside Tower"))
	require.NoError(t, err)
	require.NoError(t, svc.AddMember(p.ID, owner.ID, addMemberReq(member.ID)))

	got, err := svc.Get(p.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.Get(p.ID, stranger.ID)
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = svc.Get(9999, owner.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
