// Package transport defines the narrow contract between the conversion core
// and the chat transport. The core only needs to attach files and text to a
// conversation; everything transport-specific lives in the bindings.
package transport

import (
	"context"

	"github.com/rapidfileconvert/convertbot/internal/domain"
	"github.com/rapidfileconvert/convertbot/internal/workspace"
)

// Replier is the core's reply channel into the chat transport.
type Replier interface {
	// Notify attaches a text message to the conversation.
	Notify(ctx context.Context, chatID int64, text string) error

	// Deliver attaches a file to the conversation.
	Deliver(ctx context.Context, chatID int64, filePath, caption, filename string) error
}

// UploadKind distinguishes document uploads from chat photo messages. Photos
// arrive without a user-chosen filename and are only valid for image intents.
type UploadKind int

const (
	UploadDocument UploadKind = iota
	UploadPhoto
)

// Upload is one received file, already downloaded into a workspace the
// dispatcher takes ownership of.
type Upload struct {
	UserID    int64
	ChatID    int64
	Kind      UploadKind
	File      domain.FileHandle
	Workspace *workspace.Workspace
	Size      int64
}
