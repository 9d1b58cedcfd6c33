package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClanAuthority_IsValid(t *testing.T) {
	assert.True(t, AuthorityOwner.IsValid())
	assert.True(t, AuthorityViceGuildMaster.IsValid())
	assert.True(t, AuthorityOfficer.IsValid())
	assert.True(t, AuthorityMember.IsValid())
	assert.False(t, ClanAuthority("admiral").IsValid())
}

func TestClanAuthority_Ceiling(t *testing.T) {
	assert.Equal(t, 1, AuthorityOwner.Ceiling())
	assert.Equal(t, MaxViceGuildMasters, AuthorityViceGuildMaster.Ceiling())
	assert.Equal(t, MaxOfficers, AuthorityOfficer.Ceiling())
	assert.Equal(t, MaxMembers, AuthorityMember.Ceiling())
}

func TestClanMember_IsOwner(t *testing.T) {
	owner := &ClanMember{Authority: AuthorityOwner}
	officer := &ClanMember{Authority: AuthorityOfficer}

	assert.True(t, owner.IsOwner())
	assert.False(t, officer.IsOwner())
}
