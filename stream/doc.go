// Package stream defines the identifiers for AuroraLens realtime data
// streams.
//
// Every category of data a session can receive is named by a stream Type,
// a stable string such as "button_press" or "head_position". Streams that
// are parameterized by language carry their parameters in the identifier
// itself:
//
//	transcription:en-US
//	translation:es-ES:en-US
//
// Language codes are validated and canonicalized before an identifier is
// constructed, so two registrations for the same logical stream always
// produce the same Type.
package stream
