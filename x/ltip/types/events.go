package types

// Event types and attribute keys emitted by the dispatcher, one per
// committed mutation, mirroring the structured events the Rust reference
// contract emits for issue/claim/buy/authorize/terminate/top_up/role
// changes.
const (
	EventTypeIssue      = "ltip_issue"
	EventTypeClaim      = "ltip_claim"
	EventTypeBuy        = "ltip_buy"
	EventTypeAuthorize  = "ltip_authorize"
	EventTypeTerminate  = "ltip_terminate"
	EventTypeTopUp      = "ltip_top_up"
	EventTypeGrantRole  = "ltip_grant_role"
	EventTypeRevokeRole = "ltip_revoke_role"

	AttributeAccountID   = "account_id"
	AttributeIssuedAt    = "issued_at"
	AttributeAmount      = "amount"
	AttributePercent     = "percentage"
	AttributeTimestamp   = "timestamp"
	AttributeRole        = "role"
	AttributeOperationID = "operation_id"
)
