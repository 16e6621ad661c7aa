// Package docload resolves the technical-specification text for an audit run
// by combining an optional on-disk document with the user's free-text
// request.
package docload

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
)

// ErrNoInput is returned when neither a readable document nor a user request
// is available; there is nothing to audit.
var ErrNoInput = errors.New("docload: no usable input text")

// Result is the loaded input corpus for one run.
type Result struct {
	// Combined is the text handed to downstream prompts.
	Combined string

	// UsedDocument reports whether the on-disk document contributed to
	// Combined. False means the loader ran in degraded mode.
	UsedDocument bool

	// Path is the document path that was attempted, if any.
	Path string
}

// Load reads the document at specPath and combines it with userRequest using
// a fixed template, document first. A missing or unreadable document is a
// degraded mode, not an error: the run proceeds on the request alone. Both
// inputs empty is fatal.
func Load(userRequest, specPath string) (Result, error) {
	userRequest = strings.TrimSpace(userRequest)

	var document string
	usedDocument := false
	if specPath != "" {
		data, err := os.ReadFile(specPath)
		if err != nil {
			log.Printf("[docload] %s unreadable, proceeding with user request only: %v", specPath, err)
		} else if text := strings.TrimSpace(string(data)); text != "" {
			document = text
			usedDocument = true
		}
	}

	if document == "" && userRequest == "" {
		return Result{Path: specPath}, ErrNoInput
	}

	combined := userRequest
	if usedDocument {
		combined = fmt.Sprintf("Technical Specification:\n%s\n\nUser Request:\n%s", document, userRequest)
	}

	return Result{
		Combined:     combined,
		UsedDocument: usedDocument,
		Path:         specPath,
	}, nil
}
