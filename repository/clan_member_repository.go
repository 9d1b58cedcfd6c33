package repository

import (
	"context"
	"fmt"

	"solyx/database"
	"solyx/domain"
	"solyx/domain/entities"

	"github.com/jackc/pgx/v5"
)

// ClanMemberRepository implements interfaces.ClanMemberRepository.
type ClanMemberRepository struct {
	q       queryable
	guildID int64
}

// NewClanMemberRepository creates a membership repository over the pool.
func NewClanMemberRepository(db *database.DB, guildID int64) *ClanMemberRepository {
	return &ClanMemberRepository{q: db.Pool, guildID: guildID}
}

func newClanMemberRepository(tx queryable, guildID int64) *ClanMemberRepository {
	return &ClanMemberRepository{q: tx, guildID: guildID}
}

// Get retrieves a membership.
func (r *ClanMemberRepository) Get(ctx context.Context, clanRoleID, discordID int64) (*entities.ClanMember, error) {
	query := `
		SELECT discord_id, clan_role_id, guild_id, authority, joined_at
		FROM clan_members
		WHERE clan_role_id = $1 AND discord_id = $2 AND guild_id = $3
	`

	var member entities.ClanMember
	err := r.q.QueryRow(ctx, query, clanRoleID, discordID, r.guildID).Scan(
		&member.DiscordID,
		&member.ClanRoleID,
		&member.GuildID,
		&member.Authority,
		&member.JoinedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get membership of user %d in clan %d: %w", discordID, clanRoleID, err)
	}

	return &member, nil
}

// Add inserts a membership row.
func (r *ClanMemberRepository) Add(ctx context.Context, member *entities.ClanMember) error {
	query := `
		INSERT INTO clan_members (discord_id, clan_role_id, guild_id, authority)
		VALUES ($1, $2, $3, $4)
		RETURNING joined_at
	`

	err := r.q.QueryRow(ctx, query, member.DiscordID, member.ClanRoleID, r.guildID, member.Authority).Scan(&member.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyMember
		}
		return fmt.Errorf("failed to add user %d to clan %d: %w", member.DiscordID, member.ClanRoleID, err)
	}

	member.GuildID = r.guildID
	return nil
}

// UpdateAuthority changes a member's tier.
func (r *ClanMemberRepository) UpdateAuthority(ctx context.Context, clanRoleID, discordID int64, authority entities.ClanAuthority) error {
	query := `
		UPDATE clan_members
		SET authority = $1
		WHERE clan_role_id = $2 AND discord_id = $3 AND guild_id = $4
	`

	result, err := r.q.Exec(ctx, query, authority, clanRoleID, discordID, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to update authority of user %d in clan %d: %w", discordID, clanRoleID, err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Remove deletes a membership.
func (r *ClanMemberRepository) Remove(ctx context.Context, clanRoleID, discordID int64) error {
	query := `
		DELETE FROM clan_members
		WHERE clan_role_id = $1 AND discord_id = $2 AND guild_id = $3
	`

	result, err := r.q.Exec(ctx, query, clanRoleID, discordID, r.guildID)
	if err != nil {
		return fmt.Errorf("failed to remove user %d from clan %d: %w", discordID, clanRoleID, err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// CountByAuthority returns how many members hold the given tier.
func (r *ClanMemberRepository) CountByAuthority(ctx context.Context, clanRoleID int64, authority entities.ClanAuthority) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM clan_members
		WHERE clan_role_id = $1 AND guild_id = $2 AND authority = $3
	`

	var count int
	err := r.q.QueryRow(ctx, query, clanRoleID, r.guildID, authority).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s members of clan %d: %w", authority, clanRoleID, err)
	}

	return count, nil
}

// ListByClan returns all memberships, owner first then by seniority.
func (r *ClanMemberRepository) ListByClan(ctx context.Context, clanRoleID int64) ([]*entities.ClanMember, error) {
	query := `
		SELECT discord_id, clan_role_id, guild_id, authority, joined_at
		FROM clan_members
		WHERE clan_role_id = $1 AND guild_id = $2
		ORDER BY CASE authority
			WHEN 'owner' THEN 0
			WHEN 'vice_guild_master' THEN 1
			WHEN 'officer' THEN 2
			ELSE 3
		END, joined_at
	`

	rows, err := r.q.Query(ctx, query, clanRoleID, r.guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of clan %d: %w", clanRoleID, err)
	}
	defer rows.Close()

	var members []*entities.ClanMember
	for rows.Next() {
		var member entities.ClanMember
		err := rows.Scan(
			&member.DiscordID,
			&member.ClanRoleID,
			&member.GuildID,
			&member.Authority,
			&member.JoinedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clan member: %w", err)
		}
		members = append(members, &member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clan members: %w", err)
	}

	return members, nil
}

// RemoveByClan deletes every membership of a clan.
func (r *ClanMemberRepository) RemoveByClan(ctx context.Context, clanRoleID int64) error {
	query := `
		DELETE FROM clan_members
		WHERE clan_role_id = $1 AND guild_id = $2
	`

	if _, err := r.q.Exec(ctx, query, clanRoleID, r.guildID); err != nil {
		return fmt.Errorf("failed to remove members of clan %d: %w", clanRoleID, err)
	}

	return nil
}
