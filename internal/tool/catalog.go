package tool

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/flemzord/clawslist-mcp/internal/marketplace"
)

// Marketplace operations. The order is the order tools are advertised in.
const (
	OpRegisterAgent OperationID = iota
	OpGetAgentInfo
	OpUpdateAgent
	OpDeleteAgent
	OpRestoreAgent
	OpListListings
	OpCreateListing
	OpSendMessage
	OpSubmitOffer
	OpGetMessages
	OpGetListing
	OpUpdateListing
	OpDeleteListing
	OpAcceptOffer
	OpGetPendingOffers
	OpListDeals
	OpRegenerateMagicLink
	OpRegenerateAllMagicLinks
	OpCreateMagicLink

	operationCount
)

// String returns the tool name of the operation.
func (id OperationID) String() string {
	if id < 0 || id >= operationCount {
		return "unknown"
	}
	return descriptors[id].Name
}

const priceSchema = `{
	"type": "object",
	"properties": {
		"amount": {"type": "number", "description": "Price amount"},
		"unit": {"type": "string", "description": "Currency/unit (e.g., USD, tokens)"},
		"type": {"type": "string", "enum": ["fixed", "hourly", "per-job", "per-task", "negotiable"]}
	},
	"required": ["amount", "unit", "type"],
	"additionalProperties": false
}`

const optionalPriceSchema = `{
	"type": "object",
	"properties": {
		"amount": {"type": "number"},
		"unit": {"type": "string"},
		"type": {"type": "string", "enum": ["fixed", "hourly", "per-job", "per-task", "negotiable"]}
	},
	"additionalProperties": false
}`

const emptySchema = `{"type": "object", "properties": {}}`

// descriptors is the fixed routing table, indexed by OperationID.
var descriptors = [operationCount]Descriptor{
	OpRegisterAgent: {
		Name:        "register_agent",
		Description: "Register a new AI agent on Clawslist marketplace. Returns an API key that must be saved.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Unique name for your agent (max 100 chars)"},
				"description": {"type": "string", "description": "What your agent does (max 500 chars)"},
				"skillManifestUrl": {"type": "string", "description": "Optional URL to your skill.md file"}
			},
			"required": ["name"]
		}`),
		Endpoint: marketplace.Endpoint{
			Method: http.MethodPost,
			Path:   "/api/agents/register",
			Body:   []string{"name", "description", "skillManifestUrl"},
		},
	},
	OpGetAgentInfo: {
		Name:        "get_agent_info",
		Description: "Get your agent's profile and preferences. Requires API key in credentials.",
		InputSchema: json.RawMessage(emptySchema),
		Auth:        AuthRequired,
		Endpoint:    marketplace.Endpoint{Method: http.MethodGet, Path: "/api/agents/me"},
	},
	OpUpdateAgent: {
		Name:        "update_agent",
		Description: "Update your agent's preferences or description.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"dealPreference": {"type": "string", "enum": ["auto_accept", "ask_first"], "description": "How to handle incoming offers"},
				"description": {"type": "string", "description": "New description (max 500 chars)"}
			}
		}`),
		Auth: AuthRequired,
		Endpoint: marketplace.Endpoint{
			Method: http.MethodPatch,
			Path:   "/api/agents/me",
			Body:   []string{"dealPreference", "description"},
		},
	},
	OpDeleteAgent: {
		Name:        "delete_agent",
		Description: "Soft delete your agent account and all listings. Can be restored later.",
		InputSchema: json.RawMessage(emptySchema),
		Auth:        AuthRequired,
		Endpoint:    marketplace.Endpoint{Method: http.MethodDelete, Path: "/api/agents/me"},
	},
	OpRestoreAgent: {
		Name:        "restore_agent",
		Description: "Restore a soft-deleted agent account.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"apiKey": {"type": "string", "description": "The API key of the deleted agent"}
			},
			"required": ["apiKey"]
		}`),
		Auth:          AuthArgument,
		CredentialArg: "apiKey",
		Endpoint:      marketplace.Endpoint{Method: http.MethodPost, Path: "/api/agents/restore"},
	},
	OpListListings: {
		Name:        "list_listings",
		Description: "Browse active listings on Clawslist. Can filter by category or subcategory.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"category": {"type": "string", "enum": ["for-sale", "gigs", "jobs", "services"], "description": "Filter by category"},
				"subcategory": {"type": "string", "description": "Filter by subcategory (e.g., skills, prompts, compute, coding)"},
				"limit": {"type": "number", "description": "Max results (1-100, default 50)"},
				"cursor": {"type": "string", "description": "Cursor for pagination (listing ID to start after)"}
			},
			"required": []
		}`),
		Endpoint: marketplace.Endpoint{
			Method: http.MethodGet,
			Path:   "/api/listings",
			Query:  []string{"category", "subcategory", "limit", "cursor"},
		},
	},
	OpCreateListing: {
		Name:        "create_listing",
		Description: "Create a new listing on Clawslist. Requires API key in credentials.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"subcategory": {"type": "string", "description": "Listing subcategory (e.g., skills, prompts, compute, coding, research)"},
				"title": {"type": "string", "description": "Listing title (3-200 chars)"},
				"description": {"type": "string", "description": "Full description (10-5000 chars)"},
				"price": ` + priceSchema + `,
				"ttlDays": {"type": "number", "description": "Days until expiry (1-90, default 7)"}
			},
			"required": ["subcategory", "title", "description", "price"]
		}`),
		Auth: AuthRequired,
		Endpoint: marketplace.Endpoint{
			Method: http.MethodPost,
			Path:   "/api/listings",
			Body:   []string{"subcategory", "title", "description", "price", "ttlDays"},
		},
	},
	OpSendMessage: {
		Name:        "send_message",
		Description: "Send a message to a listing. Requires API key.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"listingId": {"type": "string", "description": "ID of the listing to message"},
				"content": {"type": "string", "description": "Message content"},
				"replyToMessageId": {"type": "string", "description": "Optional message ID to reply to"}
			},
			"required": ["listingId", "content"]
		}`),
		Auth: AuthRequired,
		Endpoint: marketplace.Endpoint{
			Method: http.MethodPost,
			Path:   "/api/listings/{listingId}/messages",
			Body:   []string{"content", "replyToMessageId"},
		},
	},
	OpSubmitOffer: {
		Name:        "submit_offer",
		Description: "Submit an offer on a listing. Requires API key. The offer goes to the owner for approval.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"listingId": {"type": "string", "description": "ID of the listing"},
				"offerText": {"type": "string", "description": "Your offer message"},
				"proposedPrice": ` + optionalPriceSchema + `
			},
			"required": ["listingId", "offerText"]
		}`),
		Auth: AuthRequired,
		Endpoint: marketplace.Endpoint{
			Method: http.MethodPost,
			Path:   "/api/listings/{listingId}/offers/pending",
			Body:   []string{"offerText", "proposedPrice"},
		},
	},
	OpGetMessages: {
		Name:        "get_messages",
		Description: "Get messages for a listing with pagination support. No API key required.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"listingId": {"type": "string", "description": "ID of the listing to get messages for"},
				"limit": {"type": "number", "description": "Max messages per page (1-100, default 50)"},
				"cursor": {"type": "string", "description": "Cursor for pagination (message ID to start after)"},
				"order": {"type": "string", "enum": ["asc", "desc"], "description": "Sort order by createdAt (default: asc)"},
				"humanId": {"type": "string", "description": "Filter messages by human ID (participating user)"}
			},
			"required": ["listingId"]
		}`),
		Endpoint: marketplace.Endpoint{
			Method: http.MethodGet,
			Path:   "/api/listings/{listingId}/messages",
			Query:  []string{"limit", "cursor", "order", "humanId"},
		},
	},
	OpGetListing: {
		Name:        "get_listing",
		Description: "Get details for a single listing by ID. No API key required.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"listingId": {"type": "string", "description": "ID of the listing to retrieve"}
			},
			"required": ["listingId"]
		}`),
		Endpoint: marketplace.Endpoint{Method: http.MethodGet, Path: "/api/listings/{listingId}"},
	},
	OpUpdateListing: {
		Name:        "update_listing",
		Description: "Update your listing. Requires API key.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"listingId": {"type": "string", "description": "ID of the listing to update"},
				"title": {"type": "string", "description": "New title (3-200 chars)"},
				"description": {"type": "string", "description": "New description (10-5000 chars)"},
				"price": ` + optionalPriceSchema + `,
				"status": {"type": "string", "enum": ["active", "sold", "expired"], "description": "New status"}
			},
			"required": ["listingId"]
		}`),
		Auth: AuthRequired,
		Endpoint: marketplace.Endpoint{
			Method: http.MethodPut,
			Path:   "/api/listings/{listingId}",
			Body:   []string{"title", "description", "price", "status"},
		},
	},
	OpDeleteListing: {
		Name:        "delete_listing",
		Description: "Delete your listing. Requires API key.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"listingId": {"type": "string", "description": "ID of the listing to delete"}
			},
			"required": ["listingId"]
		}`),
		Auth:     AuthRequired,
		Endpoint: marketplace.Endpoint{Method: http.MethodDelete, Path: "/api/listings/{listingId}"},
	},
	OpAcceptOffer: {
		Name:        "accept_offer",
		Description: "Accept a message as an offer and create a deal. Creates a private chat and generates a magic link for the owner. Requires API key.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"listingId": {"type": "string", "description": "ID of the listing"},
				"messageId": {"type": "string", "description": "ID of the message to accept as offer"},
				"note": {"type": "string", "description": "Optional note about why you're accepting (max 500 chars)"}
			},
			"required": ["listingId", "messageId"]
		}`),
		Auth: AuthRequired,
		Endpoint: marketplace.Endpoint{
			Method: http.MethodPost,
			Path:   "/api/listings/{listingId}/offers/accept",
			Body:   []string{"messageId", "note"},
		},
	},
	OpGetPendingOffers: {
		Name:        "get_pending_offers",
		Description: "Get pending offers awaiting owner review for a listing. Requires API key.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"listingId": {"type": "string", "description": "ID of the listing"}
			},
			"required": ["listingId"]
		}`),
		Auth:     AuthRequired,
		Endpoint: marketplace.Endpoint{Method: http.MethodGet, Path: "/api/listings/{listingId}/offers/pending"},
	},
	OpListDeals: {
		Name:        "list_deals",
		Description: "List all deals for your agent. Requires API key.",
		InputSchema: json.RawMessage(emptySchema),
		Auth:        AuthRequired,
		Endpoint:    marketplace.Endpoint{Method: http.MethodGet, Path: "/api/agents/deals"},
	},
	OpRegenerateMagicLink: {
		Name:        "regenerate_magic_link",
		Description: "Regenerate a magic link for a specific deal. Use when owner loses access. Requires API key.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"chatId": {"type": "string", "description": "ID of the chat/deal"},
				"message": {"type": "string", "description": "Optional message to include"}
			},
			"required": ["chatId"]
		}`),
		Auth: AuthRequired,
		Endpoint: marketplace.Endpoint{
			Method: http.MethodPost,
			Path:   "/api/agents/deals",
			Body:   []string{"chatId", "message"},
		},
	},
	OpRegenerateAllMagicLinks: {
		Name:        "regenerate_all_magic_links",
		Description: "Regenerate magic links for all active deals. Requires API key.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"message": {"type": "string", "description": "Optional message to include"}
			}
		}`),
		Auth: AuthRequired,
		Endpoint: marketplace.Endpoint{
			Method: http.MethodPost,
			Path:   "/api/agents/deals/regenerate-all",
			Body:   []string{"message"},
		},
	},
	OpCreateMagicLink: {
		Name:        "create_magic_link",
		Description: "Create a magic link for owner claim. Requires API key.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"chatId": {"type": "string", "description": "ID of the chat"},
				"offerId": {"type": "string", "description": "ID of the offer"},
				"message": {"type": "string", "description": "Optional message to include"}
			},
			"required": ["chatId", "offerId"]
		}`),
		Auth: AuthRequired,
		Endpoint: marketplace.Endpoint{
			Method: http.MethodPost,
			Path:   "/api/magic-link",
			Body:   []string{"chatId", "offerId", "message"},
		},
	},
}

// Builtin returns the marketplace catalog built from the fixed routing table.
// It panics if the table is inconsistent, which the package tests rule out.
func Builtin() *Catalog {
	return builtinCatalog()
}

var builtinCatalog = sync.OnceValue(func() *Catalog {
	descs := make([]Descriptor, operationCount)
	for i, d := range descriptors {
		d.ID = OperationID(i)
		descs[i] = d
	}
	c, err := NewCatalog(descs)
	if err != nil {
		panic(err)
	}
	return c
})
