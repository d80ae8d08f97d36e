// Package types defines the payload models and protocol message shapes
// for the AuroraLens session protocol.
//
// Payload structs mirror the wire format: snake_case JSON field names,
// one struct per stream family. The transport decodes the wire envelope
// into these types before handing them to the event engine; the event
// core itself never touches wire bytes.
package types
