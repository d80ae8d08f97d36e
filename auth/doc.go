// Package auth implements the identity flow used before a session
// exists: HS256 token creation and validation, signed session cookies
// for webviews, temporary-token extraction from webview URLs, and the
// exchange of a temporary token for a user identity against the cloud
// API. A cloud URL passed through a webview is verified with an
// HMAC-SHA256 checksum before any exchange happens.
package auth
