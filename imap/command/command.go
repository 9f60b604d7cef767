package command

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

type Payload interface {
	String() string

	// SanitizedString returns the payload with sensitive information stripped out.
	SanitizedString() string
}

type Command struct {
	Tag     string
	Payload Payload
}

func (c Command) String() string {
	return fmt.Sprintf("%v %v", c.Tag, c.Payload.String())
}

func (c Command) SanitizedString() string {
	return fmt.Sprintf("%v %v", c.Tag, c.Payload.SanitizedString())
}

func sanitizeString(s string) string {
	hash := sha256.Sum256([]byte(s))

	return base64.StdEncoding.EncodeToString(hash[:])
}
