package party

import "errors"

var (
	ErrAlreadyInParty       = errors.New("already in a party")
	ErrNotAMember           = errors.New("not a party member")
	ErrNoPendingInvite      = errors.New("no pending invite")
	ErrNotLeader            = errors.New("not the party leader")
	ErrTargetNotMember      = errors.New("target is not a party member")
	ErrNotPartyTeleportable = errors.New("target is not in the same party")
	ErrTargetAlreadyInvited = errors.New("target already has a pending invite")
	ErrTargetNotConnected   = errors.New("target player is not connected")
)
