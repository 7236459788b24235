// Package notify composes and delivers event notifications to external
// channels (Discord webhook, LinkedIn organization posts, a partner
// API, optionally X/Twitter).
//
// Channels are independent failure domains: each delivery is its own
// job, a channel missing configuration no-ops with an explanatory
// status string, and no channel's failure can block another. Message
// copy optionally comes from a generative-text service and always
// falls back to deterministic templates.
package notify
