package models

// Role is the escrow account's standing in a channel, produced by a single
// classification at the platform-client boundary.
type Role string

const (
	RoleCreator        Role = "creator"
	RoleAdmin          Role = "admin"
	RoleMember         Role = "member"
	RoleNotParticipant Role = "not_participant"
)

// AdminRights is the capability set of a channel administrator. The zero
// value is the fully revoked set.
type AdminRights struct {
	ChangeInfo     bool
	PostMessages   bool
	EditMessages   bool
	DeleteMessages bool
	BanUsers       bool
	InviteUsers    bool
	PinMessages    bool
	AddAdmins      bool
	ManageCall     bool
	ManageTopics   bool
	Anonymous      bool
}

// NoAdminRights revokes every capability.
var NoAdminRights = AdminRights{}

// JoinResult reports the outcome of the membership gate.
type JoinResult struct {
	Joined        bool `json:"joined"`
	AlreadyMember bool `json:"alreadyMember"`
}

// Classification is the role classifier's verdict for the escrow account.
type Classification struct {
	IsOwner         bool   `json:"isOwner"`
	CurrentRole     Role   `json:"currentRole"`
	ParticipantType string `json:"participantType"`
	ChannelID       int64  `json:"channelId"`
	ChannelTitle    string `json:"channelTitle"`
}

// Steps summarizes what a completed transfer run did.
type Steps struct {
	Joined               bool `json:"joined"`
	AdminsRemoved        int  `json:"adminsRemoved"`
	OwnershipTransferred bool `json:"ownershipTransferred"`
	EscrowLeft           bool `json:"escrowLeft"`
}

// TransferResult is the summary returned by a completed orchestration run.
type TransferResult struct {
	JobID         string `json:"jobId"`
	AlreadyMember bool   `json:"alreadyMember"`
	Steps         Steps  `json:"steps"`
}

type JoinRequest struct {
	ChannelUsername string `json:"channelUsername"`
}

type CheckOwnershipRequest struct {
	ChannelUsername string `json:"channelUsername"`
}

type TransferRequest struct {
	JobID           string `json:"jobId"`
	ChannelUsername string `json:"channelUsername"`
	BuyerUsername   string `json:"buyerUsername"`
}
