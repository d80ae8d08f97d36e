// Package webhook implements the HTTP server side of an AuroraLens
// app: the cloud delivers session lifecycle webhooks (start, stop,
// recovery) to a registered endpoint, and the app answers by opening
// or tearing down sessions.
package webhook
