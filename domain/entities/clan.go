package entities

import "time"

// ClanAuthority is a membership tier within a clan.
type ClanAuthority string

const (
	AuthorityOwner           ClanAuthority = "owner"
	AuthorityViceGuildMaster ClanAuthority = "vice_guild_master"
	AuthorityOfficer         ClanAuthority = "officer"
	AuthorityMember          ClanAuthority = "member"
)

// Capacity ceilings per tier. A clan always has exactly one owner, which is
// enforced by the ownership-transfer transaction rather than a count.
const (
	MaxMembers          = 100
	MaxOfficers         = 8
	MaxViceGuildMasters = 4
)

// IsValid reports whether a is a known authority tier.
func (a ClanAuthority) IsValid() bool {
	switch a {
	case AuthorityOwner, AuthorityViceGuildMaster, AuthorityOfficer, AuthorityMember:
		return true
	}
	return false
}

// Ceiling returns the maximum number of members a tier may hold.
func (a ClanAuthority) Ceiling() int {
	switch a {
	case AuthorityOwner:
		return 1
	case AuthorityViceGuildMaster:
		return MaxViceGuildMasters
	case AuthorityOfficer:
		return MaxOfficers
	default:
		return MaxMembers
	}
}

// String returns the tier as stored in the database.
func (a ClanAuthority) String() string {
	return string(a)
}

// Clan is a guild-scoped group keyed by its Discord role. Exactly one owner
// exists at all times.
type Clan struct {
	ClanRoleID     int64     `db:"clan_role_id"`
	GuildID        int64     `db:"guild_id"`
	OwnerDiscordID int64     `db:"owner_discord_id"`
	Motto          *string   `db:"motto"`
	CreatedAt      time.Time `db:"created_at"`
}

// ClanMember is a user's membership in a clan. A user holds at most one
// membership per clan.
type ClanMember struct {
	DiscordID  int64         `db:"discord_id"`
	ClanRoleID int64         `db:"clan_role_id"`
	GuildID    int64         `db:"guild_id"`
	Authority  ClanAuthority `db:"authority"`
	JoinedAt   time.Time     `db:"joined_at"`
}

// IsOwner reports whether the membership is the owner slot.
func (m *ClanMember) IsOwner() bool {
	return m.Authority == AuthorityOwner
}
