// Package dispatch implements the per-user conversion session state machine.
// It receives intent declarations, uploads, merge triggers and cancels from
// the transport, validates uploads against the pending intent, runs
// conversions on a worker pool, and guarantees that every workspace created
// for an operation is destroyed exactly once on every exit path.
package dispatch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rapidfileconvert/convertbot/internal/convert"
	"github.com/rapidfileconvert/convertbot/internal/domain"
	"github.com/rapidfileconvert/convertbot/internal/observability"
	"github.com/rapidfileconvert/convertbot/internal/session"
	"github.com/rapidfileconvert/convertbot/internal/transport"
	"github.com/rapidfileconvert/convertbot/internal/workspace"
)

// Recorder is the dispatcher's contract with the usage log: fire-and-forget
// appends, plus the count query behind the status command.
type Recorder interface {
	Append(ctx context.Context, userID int64, command string) error
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

// Config holds dispatcher settings.
type Config struct {
	MaxUploadBytes int64
	Workers        int
}

// Dispatcher ties sessions, validation, workspaces and the conversion
// engines together.
type Dispatcher struct {
	cfg        Config
	sessions   *session.Store
	workspaces *workspace.Manager
	invoker    convert.Invoker
	usage      Recorder
	replier    transport.Replier
	pool       *Pool
	logger     *observability.Logger
}

// NewDispatcher creates a dispatcher. Start must be called before any upload
// can be processed.
func NewDispatcher(
	cfg Config,
	sessions *session.Store,
	workspaces *workspace.Manager,
	invoker convert.Invoker,
	usage Recorder,
	replier transport.Replier,
	logger *observability.Logger,
) *Dispatcher {
	return &Dispatcher{
		cfg:        cfg,
		sessions:   sessions,
		workspaces: workspaces,
		invoker:    invoker,
		usage:      usage,
		replier:    replier,
		pool:       NewPool(cfg.Workers),
		logger:     logger.WithComponent("dispatch"),
	}
}

// Start launches the conversion workers.
func (d *Dispatcher) Start(ctx context.Context) {
	d.pool.Start(ctx)
}

// Wait drains the conversion workers. Called on shutdown.
func (d *Dispatcher) Wait() {
	d.pool.Wait()
}

// HandleIntent handles an intent declaration. It always succeeds and always
// overwrites prior state; a discarded merge session's workspaces are freed
// at the moment of overwrite so they cannot leak.
func (d *Dispatcher) HandleIntent(ctx context.Context, userID, chatID int64, kind domain.IntentKind) {
	replaced := d.sessions.SetIntent(userID, kind)
	if replaced != nil {
		if replaced.InFlight() {
			// The in-flight completion owns its workspaces, including any
			// accumulated merge files it captured at trigger time, and will
			// discard its result because its session no longer matches.
			d.logger.WithUser(userID).Info().Msg("Intent replaced an in-flight conversion")
		} else {
			d.freeMergeFiles(replaced)
		}
	}
	d.notify(ctx, chatID, intentPrompt(kind))
}

// HandleUpload handles a document or photo upload. The dispatcher takes
// ownership of the upload's workspace and frees it on every path that does
// not hand it to a merge session or an in-flight conversion.
func (d *Dispatcher) HandleUpload(ctx context.Context, up transport.Upload) {
	command := "upload"
	if up.Kind == transport.UploadPhoto {
		command = "photo"
	}
	d.recordUsage(up.UserID, command)

	if up.Size > d.cfg.MaxUploadBytes {
		d.workspaces.Destroy(up.Workspace)
		d.notify(ctx, up.ChatID, tooLargeNotice(d.cfg.MaxUploadBytes/(1024*1024)))
		return
	}

	if d.sessions.Processing(up.UserID) {
		d.workspaces.Destroy(up.Workspace)
		d.notify(ctx, up.ChatID, msgBusy)
		return
	}

	kind := d.sessions.Intent(up.UserID)
	if kind == domain.IntentNone {
		d.workspaces.Destroy(up.Workspace)
		d.notify(ctx, up.ChatID, msgNoPendingIntent)
		return
	}

	if kind == domain.IntentMerge {
		d.handleMergeUpload(ctx, up)
		return
	}

	if err := convert.Validate(up.File.Ext(), kind); err != nil {
		d.workspaces.Destroy(up.Workspace)
		d.clearIdleSession(up.UserID)
		d.notify(ctx, up.ChatID, userMessage(err))
		return
	}

	sess, ok := d.sessions.BeginProcessing(up.UserID)
	if !ok {
		d.workspaces.Destroy(up.Workspace)
		d.notify(ctx, up.ChatID, msgBusy)
		return
	}

	out, err := d.workspaces.Create()
	if err != nil {
		d.workspaces.Destroy(up.Workspace)
		d.sessions.ClearExact(up.UserID, sess)
		d.logger.WithUser(up.UserID).Error().Err(err).Msg("Output workspace creation failed")
		d.notify(ctx, up.ChatID, msgInternal)
		return
	}

	d.notify(ctx, up.ChatID, convertingNotice(kind))

	req := domain.ConversionRequest{
		Intent:    kind,
		Inputs:    []domain.FileHandle{up.File},
		OutputDir: out.Root,
	}
	d.pool.Submit(func() {
		result := d.invoker.Invoke(ctx, req)
		d.settleSingle(ctx, up, sess, out, kind, result)
	})
}

// handleMergeUpload appends a validated upload to the merge accumulation. A
// rejected upload frees only its own workspace; the merge session is
// untouched either way until the trigger.
func (d *Dispatcher) handleMergeUpload(ctx context.Context, up transport.Upload) {
	if err := convert.Validate(up.File.Ext(), domain.IntentMerge); err != nil {
		d.workspaces.Destroy(up.Workspace)
		d.notify(ctx, up.ChatID, msgMergeOnlyPDF)
		return
	}

	file := session.MergeFile{Handle: up.File, Workspace: up.Workspace}
	if err := d.sessions.AppendMergeFile(up.UserID, file); err != nil {
		d.workspaces.Destroy(up.Workspace)
		d.notify(ctx, up.ChatID, msgNoMergeSession)
		return
	}
	d.notify(ctx, up.ChatID, msgMergeSaved)
}

// HandleMergeTrigger handles the explicit merge-now event. Fewer than two
// accumulated files rejects the trigger without consuming the session.
func (d *Dispatcher) HandleMergeTrigger(ctx context.Context, userID, chatID int64) {
	files, err := d.sessions.MergeFiles(userID)
	if err != nil {
		d.notify(ctx, chatID, msgNoMergeSession)
		return
	}
	if len(files) < 2 {
		d.notify(ctx, chatID, msgNeedTwoFiles)
		return
	}

	sess, ok := d.sessions.BeginProcessing(userID)
	if !ok {
		d.notify(ctx, chatID, msgBusy)
		return
	}

	out, err := d.workspaces.Create()
	if err != nil {
		for _, f := range files {
			d.workspaces.Destroy(f.Workspace)
		}
		d.sessions.ClearExact(userID, sess)
		d.logger.WithUser(userID).Error().Err(err).Msg("Output workspace creation failed")
		d.notify(ctx, chatID, msgInternal)
		return
	}

	d.notify(ctx, chatID, convertingNotice(domain.IntentMerge))

	inputs := make([]domain.FileHandle, 0, len(files))
	for _, f := range files {
		inputs = append(inputs, f.Handle)
	}
	req := domain.ConversionRequest{
		Intent:    domain.IntentMerge,
		Inputs:    inputs,
		OutputDir: out.Root,
	}
	d.pool.Submit(func() {
		result := d.invoker.Invoke(ctx, req)
		d.settleMerge(ctx, userID, chatID, sess, files, out, result)
	})
}

// HandleCancel handles a cancel event. A cancel with a conversion in flight
// only discards the eventual result; workspaces are freed once the engine
// call returns.
func (d *Dispatcher) HandleCancel(ctx context.Context, userID, chatID int64) {
	if d.sessions.MarkCancelled(userID) {
		d.notify(ctx, chatID, msgCancelInFlight)
		return
	}

	sess := d.sessions.Clear(userID)
	if sess == nil {
		d.notify(ctx, chatID, msgNothingToCancel)
		return
	}
	d.freeMergeFiles(sess)
	d.notify(ctx, chatID, msgCancelled)
}

// HandleStatus replies with the user's usage count.
func (d *Dispatcher) HandleStatus(ctx context.Context, userID, chatID int64) {
	count, err := d.usage.CountByUser(ctx, userID)
	if err != nil {
		d.logger.WithUser(userID).Warn().Err(err).Msg("Usage count query failed")
		d.notify(ctx, chatID, msgInternal)
		return
	}
	d.notify(ctx, chatID, fmt.Sprintf("Your usage count: %d", count))
}

// settleSingle finishes a single-file conversion: deliver or report, then
// free the input and output workspaces and clear the session.
func (d *Dispatcher) settleSingle(
	ctx context.Context,
	up transport.Upload,
	sess *session.Session,
	out *workspace.Workspace,
	kind domain.IntentKind,
	result domain.ConversionResult,
) {
	defer func() {
		d.workspaces.Destroy(up.Workspace)
		d.workspaces.Destroy(out)
	}()

	if discard := d.sessions.ClearExact(up.UserID, sess); discard {
		d.logger.WithUser(up.UserID).Info().
			Str("operation", kind.String()).
			Msg("Discarding result of cancelled conversion")
		return
	}

	if !result.OK() {
		d.notify(ctx, up.ChatID, userMessage(result.Err))
		return
	}

	if kind == domain.IntentPdfToJpg {
		// Page images are delivered one by one in page order.
		for _, page := range result.Outputs {
			d.deliver(ctx, up.ChatID, page.Path, "Page image", filepath.Base(page.Path))
		}
		d.notify(ctx, up.ChatID, msgPagesDone)
		return
	}

	output := result.Outputs[0]
	d.deliver(ctx, up.ChatID, output.Path, successCaption(kind), filepath.Base(output.Path))
}

// settleMerge finishes a merge: deliver or report, then free every
// accumulated workspace plus the output workspace and clear the session.
func (d *Dispatcher) settleMerge(
	ctx context.Context,
	userID, chatID int64,
	sess *session.Session,
	files []session.MergeFile,
	out *workspace.Workspace,
	result domain.ConversionResult,
) {
	defer func() {
		for _, f := range files {
			d.workspaces.Destroy(f.Workspace)
		}
		d.workspaces.Destroy(out)
	}()

	if discard := d.sessions.ClearExact(userID, sess); discard {
		d.logger.WithUser(userID).Info().Msg("Discarding result of cancelled merge")
		return
	}

	if !result.OK() {
		d.notify(ctx, chatID, userMessage(result.Err))
		return
	}

	output := result.Outputs[0]
	d.deliver(ctx, chatID, output.Path, successCaption(domain.IntentMerge), filepath.Base(output.Path))
}

// clearIdleSession removes a session that holds no workspaces. Single-file
// sessions own nothing until a conversion is in flight.
func (d *Dispatcher) clearIdleSession(userID int64) {
	if sess := d.sessions.Clear(userID); sess != nil {
		d.freeMergeFiles(sess)
	}
}

// freeMergeFiles destroys every workspace a detached session still owns.
func (d *Dispatcher) freeMergeFiles(sess *session.Session) {
	for _, f := range sess.MergeFiles {
		d.workspaces.Destroy(f.Workspace)
	}
}

// recordUsage appends to the usage log without blocking event handling.
func (d *Dispatcher) recordUsage(userID int64, command string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.usage.Append(ctx, userID, command); err != nil {
			d.logger.WithUser(userID).Warn().Err(err).Msg("Usage append failed")
		}
	}()
}

func (d *Dispatcher) notify(ctx context.Context, chatID int64, text string) {
	if err := d.replier.Notify(ctx, chatID, text); err != nil {
		d.logger.Warn().Int64("chat_id", chatID).Err(err).Msg("Notify failed")
	}
}

func (d *Dispatcher) deliver(ctx context.Context, chatID int64, path, caption, filename string) {
	if err := d.replier.Deliver(ctx, chatID, path, caption, filename); err != nil {
		d.logger.Warn().Int64("chat_id", chatID).Str("file", filename).Err(err).Msg("Deliver failed")
	}
}
