package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rapidfileconvert/convertbot/internal/dispatch"
	"github.com/rapidfileconvert/convertbot/internal/domain"
	"github.com/rapidfileconvert/convertbot/internal/observability"
	"github.com/rapidfileconvert/convertbot/internal/transport"
	"github.com/rapidfileconvert/convertbot/internal/workspace"
)

// Poller consumes Telegram updates and translates them into dispatcher
// events. Command parsing and keyboard rendering live here; the dispatcher
// never sees transport specifics.
type Poller struct {
	client         *Client
	dispatcher     *dispatch.Dispatcher
	workspaces     *workspace.Manager
	maxUploadBytes int64
	pollTimeout    time.Duration
	logger         *observability.Logger
}

// NewPoller creates an update poller.
func NewPoller(
	client *Client,
	dispatcher *dispatch.Dispatcher,
	workspaces *workspace.Manager,
	maxUploadBytes int64,
	pollTimeout time.Duration,
	logger *observability.Logger,
) *Poller {
	return &Poller{
		client:         client,
		dispatcher:     dispatcher,
		workspaces:     workspaces,
		maxUploadBytes: maxUploadBytes,
		pollTimeout:    pollTimeout,
		logger:         logger.WithComponent("poller"),
	}
}

// Run long-polls for updates until ctx is cancelled. Handling one update
// never blocks on a conversion; slow work is queued on the dispatcher's
// worker pool.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := p.client.GetUpdates(ctx, offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn().Err(err).Msg("getUpdates failed, backing off")
			time.Sleep(2 * time.Second)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			p.handleUpdate(ctx, update)
		}
	}
}

func (p *Poller) handleUpdate(ctx context.Context, update Update) {
	switch {
	case update.CallbackQuery != nil:
		p.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		p.handleMessage(ctx, update.Message)
	}
}

func (p *Poller) handleCallback(ctx context.Context, query *CallbackQuery) {
	if err := p.client.AnswerCallback(ctx, query.ID); err != nil {
		p.logger.Warn().Err(err).Msg("answerCallbackQuery failed")
	}
	if query.Message == nil {
		return
	}
	p.routeCommand(ctx, query.From.ID, query.Message.Chat.ID, query.Data)
}

func (p *Poller) handleMessage(ctx context.Context, msg *Message) {
	if msg.From == nil {
		return
	}
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch {
	case msg.Document != nil:
		p.handleDocument(ctx, userID, chatID, msg.Document)
	case len(msg.Photo) > 0:
		p.handlePhoto(ctx, userID, chatID, msg.Photo)
	case strings.HasPrefix(msg.Text, "/"):
		cmd := strings.TrimPrefix(strings.Fields(msg.Text)[0], "/")
		if at := strings.Index(cmd, "@"); at >= 0 {
			cmd = cmd[:at]
		}
		p.routeCommand(ctx, userID, chatID, cmd)
	case msg.Text != "":
		p.routePhrase(ctx, userID, chatID, msg.Text)
	}
}

// routeCommand dispatches a command or menu selection.
func (p *Poller) routeCommand(ctx context.Context, userID, chatID int64, cmd string) {
	switch cmd {
	case "start":
		p.sendWelcome(ctx, chatID)
	case "help":
		p.sendHelp(ctx, chatID)
	case "menu", "open_menu":
		p.sendMenu(ctx, chatID)
	case "status":
		p.dispatcher.HandleStatus(ctx, userID, chatID)
	case "merge_now":
		p.dispatcher.HandleMergeTrigger(ctx, userID, chatID)
	case "cancel_action":
		p.dispatcher.HandleCancel(ctx, userID, chatID)
	default:
		kind := domain.IntentFromCommand(cmd)
		if kind == domain.IntentNone {
			p.notify(ctx, chatID, "I didn't understand that. Use /menu to choose an action first.")
			return
		}
		if kind == domain.IntentMerge {
			p.dispatcher.HandleIntent(ctx, userID, chatID, kind)
			p.sendMergeKeyboard(ctx, chatID)
			return
		}
		p.dispatcher.HandleIntent(ctx, userID, chatID, kind)
	}
}

// routePhrase maps plain-text phrases like "pdf to word" to intent commands.
func (p *Poller) routePhrase(ctx context.Context, userID, chatID int64, text string) {
	phrase := strings.ToLower(strings.TrimSpace(text))
	mapping := map[string]string{
		"pdf to word": "pdf_to_word",
		"pdf to jpg":  "pdf_to_jpg",
		"jpg to pdf":  "jpg_to_pdf",
		"png to jpg":  "png_to_jpg",
		"jpg to png":  "jpg_to_png",
		"docx to pdf": "docx_to_pdf",
		"merge":       "merge",
		"compress":    "compress",
		"menu":        "menu",
	}
	if cmd, ok := mapping[phrase]; ok {
		p.routeCommand(ctx, userID, chatID, cmd)
	}
}

// handleDocument downloads an uploaded document into a fresh workspace and
// hands ownership to the dispatcher. Files over the size limit are rejected
// before any workspace is created.
func (p *Poller) handleDocument(ctx context.Context, userID, chatID int64, doc *Document) {
	if doc.FileSize > p.maxUploadBytes {
		p.notify(ctx, chatID, fmt.Sprintf("File too large. Max allowed is %d MB.", p.maxUploadBytes/(1024*1024)))
		return
	}

	ws, err := p.workspaces.Create()
	if err != nil {
		p.logger.WithUser(userID).Error().Err(err).Msg("Workspace creation failed")
		p.notify(ctx, chatID, "Something went wrong on my side. Please try again.")
		return
	}

	name := doc.FileName
	if name == "" {
		name = "file_" + uuid.New().String()[:8]
	}
	dest := ws.Join(name)

	p.notify(ctx, chatID, "Downloading file...")
	size, err := p.client.Download(ctx, doc.FileID, dest)
	if err != nil {
		p.workspaces.Destroy(ws)
		p.logger.WithUser(userID).Error().Err(err).Msg("Document download failed")
		p.notify(ctx, chatID, "Download failed. Please try again.")
		return
	}

	p.dispatcher.HandleUpload(ctx, transport.Upload{
		UserID:    userID,
		ChatID:    chatID,
		Kind:      transport.UploadDocument,
		File:      domain.FileHandle{Path: dest, WorkspaceID: ws.ID},
		Workspace: ws,
		Size:      size,
	})
}

// handlePhoto downloads the largest photo size as a JPEG upload.
func (p *Poller) handlePhoto(ctx context.Context, userID, chatID int64, photos []PhotoSize) {
	photo := photos[len(photos)-1]
	if photo.FileSize > p.maxUploadBytes {
		p.notify(ctx, chatID, fmt.Sprintf("File too large. Max allowed is %d MB.", p.maxUploadBytes/(1024*1024)))
		return
	}

	ws, err := p.workspaces.Create()
	if err != nil {
		p.logger.WithUser(userID).Error().Err(err).Msg("Workspace creation failed")
		p.notify(ctx, chatID, "Something went wrong on my side. Please try again.")
		return
	}
	dest := ws.Join("photo_" + uuid.New().String()[:8] + ".jpg")

	p.notify(ctx, chatID, "Downloading photo...")
	size, err := p.client.Download(ctx, photo.FileID, dest)
	if err != nil {
		p.workspaces.Destroy(ws)
		p.logger.WithUser(userID).Error().Err(err).Msg("Photo download failed")
		p.notify(ctx, chatID, "Download failed. Please try again.")
		return
	}

	p.dispatcher.HandleUpload(ctx, transport.Upload{
		UserID:    userID,
		ChatID:    chatID,
		Kind:      transport.UploadPhoto,
		File:      domain.FileHandle{Path: dest, WorkspaceID: ws.ID},
		Workspace: ws,
		Size:      size,
	})
}

func (p *Poller) notify(ctx context.Context, chatID int64, text string) {
	if err := p.client.Notify(ctx, chatID, text); err != nil {
		p.logger.Warn().Int64("chat_id", chatID).Err(err).Msg("Notify failed")
	}
}
