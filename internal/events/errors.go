package events

import "errors"

// ErrMalformedMessage marks an inbound message that cannot be parsed or
// carries invalid field values. Consumers reject such messages straight
// to the dead-letter destination; redelivery cannot fix a parse failure.
var ErrMalformedMessage = errors.New("malformed message")
