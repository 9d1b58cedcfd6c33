package services

import (
	"context"
	"testing"

	"solyx/domain"
	"solyx/domain/entities"
	"solyx/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newClanFixture() (*testhelpers.MockUnitOfWorkFactory, *testhelpers.MockUnitOfWork, *testhelpers.MockClanRepository, *testhelpers.MockClanMemberRepository, *testhelpers.MockClanWalletRepository, *testhelpers.MockClanTaxRepository) {
	mockUoW := new(testhelpers.MockUnitOfWork)
	mockFactory := new(testhelpers.MockUnitOfWorkFactory)
	mockClanRepo := new(testhelpers.MockClanRepository)
	mockMemberRepo := new(testhelpers.MockClanMemberRepository)
	mockClanWalletRepo := new(testhelpers.MockClanWalletRepository)
	mockTaxRepo := new(testhelpers.MockClanTaxRepository)

	mockUoW.SetClanRepositories(mockClanRepo, mockMemberRepo, mockClanWalletRepo, mockTaxRepo)

	mockFactory.On("CreateForGuild", testGuildID).Return(mockUoW)
	mockUoW.On("Begin", mock.Anything).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return mockFactory, mockUoW, mockClanRepo, mockMemberRepo, mockClanWalletRepo, mockTaxRepo
}

func TestClanService_CreateClan_InsertsOwnerMembership(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockClanRepo, mockMemberRepo, _, _ := newClanFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewClanService(mockFactory)

	mockClanRepo.On("Create", ctx, mock.MatchedBy(func(c *entities.Clan) bool {
		return c.ClanRoleID == 555 && c.OwnerDiscordID == 111
	})).Return(nil)
	mockMemberRepo.On("Add", ctx, mock.MatchedBy(func(m *entities.ClanMember) bool {
		return m.DiscordID == 111 && m.Authority == entities.AuthorityOwner
	})).Return(nil)

	err := service.CreateClan(ctx, testGuildID, 555, 111)

	require.NoError(t, err)
	mockClanRepo.AssertExpectations(t)
	mockMemberRepo.AssertExpectations(t)
}

func TestClanService_CreateClan_Duplicate(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockClanRepo, mockMemberRepo, _, _ := newClanFixture()

	service := NewClanService(mockFactory)

	mockClanRepo.On("Create", ctx, mock.Anything).Return(domain.ErrAlreadyExists)

	err := service.CreateClan(ctx, testGuildID, 555, 111)

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	mockMemberRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestClanService_AddMember_OfficerCapacity(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockClanRepo, mockMemberRepo, _, _ := newClanFixture()

	service := NewClanService(mockFactory)

	mockClanRepo.On("GetByRoleID", ctx, int64(555)).Return(&entities.Clan{ClanRoleID: 555, OwnerDiscordID: 1}, nil)
	mockMemberRepo.On("CountByAuthority", ctx, int64(555), entities.AuthorityOfficer).Return(entities.MaxOfficers, nil)

	err := service.AddMember(ctx, testGuildID, 555, 222, entities.AuthorityOfficer)

	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
	mockMemberRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

// A clan whose member roster is full still has room in the leadership
// tiers; the ceilings are independent.
func TestClanService_AddMember_OfficerJoinsFullClan(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockClanRepo, mockMemberRepo, _, _ := newClanFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewClanService(mockFactory)

	mockClanRepo.On("GetByRoleID", ctx, int64(555)).Return(&entities.Clan{ClanRoleID: 555, OwnerDiscordID: 1}, nil)
	mockMemberRepo.On("CountByAuthority", ctx, int64(555), entities.AuthorityMember).Return(entities.MaxMembers, nil).Maybe()
	mockMemberRepo.On("CountByAuthority", ctx, int64(555), entities.AuthorityOfficer).Return(4, nil)
	mockMemberRepo.On("Add", ctx, mock.MatchedBy(func(m *entities.ClanMember) bool {
		return m.DiscordID == 222 && m.Authority == entities.AuthorityOfficer
	})).Return(nil)

	err := service.AddMember(ctx, testGuildID, 555, 222, entities.AuthorityOfficer)

	require.NoError(t, err)
	mockMemberRepo.AssertExpectations(t)
}

func TestClanService_AddMember_OfficerBelowCeiling(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockClanRepo, mockMemberRepo, _, _ := newClanFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewClanService(mockFactory)

	mockClanRepo.On("GetByRoleID", ctx, int64(555)).Return(&entities.Clan{ClanRoleID: 555, OwnerDiscordID: 1}, nil)
	mockMemberRepo.On("CountByAuthority", ctx, int64(555), entities.AuthorityOfficer).Return(entities.MaxOfficers-1, nil)
	mockMemberRepo.On("Add", ctx, mock.MatchedBy(func(m *entities.ClanMember) bool {
		return m.DiscordID == 222 && m.Authority == entities.AuthorityOfficer
	})).Return(nil)

	err := service.AddMember(ctx, testGuildID, 555, 222, entities.AuthorityOfficer)

	require.NoError(t, err)
	mockMemberRepo.AssertExpectations(t)
}

func TestClanService_AddMember_MemberTierFull(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockClanRepo, mockMemberRepo, _, _ := newClanFixture()

	service := NewClanService(mockFactory)

	mockClanRepo.On("GetByRoleID", ctx, int64(555)).Return(&entities.Clan{ClanRoleID: 555, OwnerDiscordID: 1}, nil)
	mockMemberRepo.On("CountByAuthority", ctx, int64(555), entities.AuthorityMember).Return(entities.MaxMembers, nil)

	err := service.AddMember(ctx, testGuildID, 555, 222, entities.AuthorityMember)

	assert.ErrorIs(t, err, domain.ErrCapacityExceeded)
}

func TestClanService_AddMember_RejectsOwnerTier(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(testhelpers.MockUnitOfWorkFactory)

	service := NewClanService(mockFactory)

	err := service.AddMember(ctx, testGuildID, 555, 222, entities.AuthorityOwner)

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	mockFactory.AssertNotCalled(t, "CreateForGuild", mock.Anything)
}

func TestClanService_RemoveMember_OwnerRefused(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, _, mockMemberRepo, _, _ := newClanFixture()

	service := NewClanService(mockFactory)

	mockMemberRepo.On("Get", ctx, int64(555), int64(111)).Return(&entities.ClanMember{
		DiscordID: 111, ClanRoleID: 555, Authority: entities.AuthorityOwner,
	}, nil)

	err := service.RemoveMember(ctx, testGuildID, 555, 111)

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	mockMemberRepo.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestClanService_SetOwner_SingleTransaction(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockClanRepo, mockMemberRepo, _, _ := newClanFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewClanService(mockFactory)

	mockClanRepo.On("GetByRoleID", ctx, int64(555)).Return(&entities.Clan{
		ClanRoleID: 555, OwnerDiscordID: 111,
	}, nil)
	mockMemberRepo.On("Get", ctx, int64(555), int64(222)).Return(&entities.ClanMember{
		DiscordID: 222, ClanRoleID: 555, Authority: entities.AuthorityOfficer,
	}, nil)
	mockMemberRepo.On("Remove", ctx, int64(555), int64(222)).Return(nil)
	mockMemberRepo.On("UpdateAuthority", ctx, int64(555), int64(111), entities.AuthorityMember).Return(nil)
	mockMemberRepo.On("Add", ctx, mock.MatchedBy(func(m *entities.ClanMember) bool {
		return m.DiscordID == 222 && m.Authority == entities.AuthorityOwner
	})).Return(nil)
	mockClanRepo.On("UpdateOwner", ctx, int64(555), int64(222)).Return(nil)

	err := service.SetOwner(ctx, testGuildID, 555, 222)

	require.NoError(t, err)
	mockClanRepo.AssertExpectations(t)
	mockMemberRepo.AssertExpectations(t)
	mockUoW.AssertCalled(t, "Commit")
}

func TestClanService_SetOwner_AlreadyOwner(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, mockClanRepo, mockMemberRepo, _, _ := newClanFixture()

	service := NewClanService(mockFactory)

	mockClanRepo.On("GetByRoleID", ctx, int64(555)).Return(&entities.Clan{
		ClanRoleID: 555, OwnerDiscordID: 222,
	}, nil)

	err := service.SetOwner(ctx, testGuildID, 555, 222)

	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	mockMemberRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestClanService_DeleteClan_CascadesEverything(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockClanRepo, mockMemberRepo, mockClanWalletRepo, mockTaxRepo := newClanFixture()
	mockUoW.On("Commit").Return(nil)

	service := NewClanService(mockFactory)

	mockClanRepo.On("GetByRoleID", ctx, int64(555)).Return(&entities.Clan{ClanRoleID: 555, OwnerDiscordID: 111}, nil)
	mockMemberRepo.On("RemoveByClan", ctx, int64(555)).Return(nil)
	mockClanWalletRepo.On("Delete", ctx, int64(555)).Return(nil)
	mockTaxRepo.On("Delete", ctx, int64(555)).Return(nil)
	mockClanRepo.On("Delete", ctx, int64(555)).Return(nil)

	err := service.DeleteClan(ctx, testGuildID, 555)

	require.NoError(t, err)
	mockMemberRepo.AssertExpectations(t)
	mockClanWalletRepo.AssertExpectations(t)
	mockTaxRepo.AssertExpectations(t)
	mockClanRepo.AssertExpectations(t)
}
