// Package transport connects a session to the AuroraLens cloud over
// WebSocket and bridges the wire protocol to the event engine.
//
// The read loop decodes each protocol message and feeds the resulting
// typed payload into the engine's Emit; the engine itself never sees
// wire bytes. In the other direction the connection implements the
// engine's subscription-needed hook by sending a subscription update
// listing every stream the app currently wants.
//
// Reconnection and backoff policy are deliberately out of scope; a
// dropped connection surfaces as a disconnected event and the owning
// session decides what to do.
package transport
