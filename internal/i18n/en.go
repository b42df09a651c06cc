package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// TUI tabs
	"panel.todos":     "Todos",
	"panel.approvals": "Approvals",
	"panel.chat":      "Chat",
	"panel.log":       "Log",

	// Status bar
	"status.base":       "Base",
	"status.logged_in":  "logged in (%s)",
	"status.logged_out": "not logged in",
	"status.ws_open":    "ws: open",
	"status.ws_closed":  "ws: closed",
	"status.ready":      "Ready",
	"status.busy":       "Working...",

	// WebSocket log
	"ws.connected":     "WebSocket connected",
	"ws.received":      "received: %s",
	"ws.closed":        "WebSocket closed",
	"ws.error":         "WebSocket error: %s",
	"ws.already":       "WebSocket already connected",
	"ws.not_connected": "WebSocket is not connected",

	// Command results
	"base.current":      "Base URL: %s",
	"base.saved":        "Base URL saved: %s",
	"login.ok":          "Logged in as %s",
	"login.failed":      "User login failed: %s",
	"logout.ok":         "Logged out",
	"whoami.none":       "Not logged in",
	"whoami.token":      "Token: %s",
	"whoami.user":       "User: %s",
	"whoami.issued":     "Issued: %s",
	"whoami.expires":    "Expires: %s",
	"whoami.expired":    "Token expired",
	"whoami.opaque":     "Token is not a JWT",
	"todo.created":      "Todo created",
	"todo.finished":     "Todo %s finished",
	"todo.deleted":      "Todo %s deleted",
	"todo.empty":        "No todos",
	"approval.disposed": "Approval %s: %s",
	"approval.empty":    "No approvals",
	"chat.you":          "You",
	"chat.assistant":    "Assistant",
	"upload.ok":         "Uploaded %s",
	"history.empty":     "No history yet",
	"history.cleared":   "History cleared",
	"unknown.command":   "Unknown command: %s (try /help)",

	// Errors
	"error.request":    "Request failed: %s",
	"error.validation": "Invalid input: %s",
	"error.auth":       "Login failed: %s",
	"error.usage":      "Usage: %s",

	// Table headers
	"col.id":       "ID",
	"col.title":    "Title",
	"col.status":   "Status",
	"col.deadline": "Deadline",
	"col.creator":  "Creator",
	"col.type":     "Type",
	"col.user":     "Applicant",
	"col.reason":   "Reason",

	// Help
	"help.title":    "Commands",
	"help.base":     "/base [url]                          show or set the backend address",
	"help.login":    "/login admin|user <name> <password>  log in",
	"help.whoami":   "/whoami                              show token claims",
	"help.logout":   "/logout                              forget the token",
	"help.todo":     "/todo list [userId] | add <title> [--deadline N] [--exec a,b] [--desc text] | finish <id> | delete <id>",
	"help.approval": "/approval list [userId] [type] | pass <id> [reason] | reject <id> [reason]",
	"help.chat":     "/chat <prompt> (or plain text)      send a chat prompt",
	"help.upload":   "/upload <path> [--chat]              upload a file",
	"help.ws":       "/ws connect [url] | disconnect       live notifications",
	"help.history":  "/history [n|clear]                   recent chat and socket transcript",
	"help.exit":     "/exit                                quit",

	// TUI hints
	"tui.input_placeholder": "Type a command or a chat prompt...",
	"tui.hint":              "tab switch view · enter send · ctrl+r refresh · ctrl+c quit",
}
