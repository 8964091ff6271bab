// Package telegram binds the conversion core to the Telegram Bot API. It is
// deliberately thin: long-poll updates in, text and document replies out.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rapidfileconvert/convertbot/internal/observability"
)

// Config holds Telegram client settings.
type Config struct {
	Token       string
	BaseURL     string
	HTTPTimeout time.Duration
	InitRetries int
	InitBackoff time.Duration
}

// Client is a minimal Telegram Bot API client.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *observability.Logger
}

// NewClient creates a Telegram client.
func NewClient(cfg Config, logger *observability.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.telegram.org"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 90 * time.Second
	}
	if cfg.InitRetries == 0 {
		cfg.InitRetries = 6
	}
	if cfg.InitBackoff == 0 {
		cfg.InitBackoff = 2 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.HTTPTimeout},
		logger: logger.WithComponent("telegram"),
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.cfg.BaseURL, c.cfg.Token, method)
}

// call performs one Bot API method call with form-encoded parameters and
// decodes the result into out when out is non-nil.
func (c *Client) call(ctx context.Context, method string, params url.Values, out interface{}) error {
	body := strings.NewReader(params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	return decodeResponse(method, resp.Body, out)
}

func decodeResponse(method string, r io.Reader, out interface{}) error {
	var api apiResponse
	if err := json.NewDecoder(r).Decode(&api); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if !api.OK {
		return fmt.Errorf("%s rejected: %s", method, api.Description)
	}
	if out != nil {
		if err := json.Unmarshal(api.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

// WaitReady verifies the API is reachable, retrying with exponential backoff
// up to the configured attempt count. Startup is fatal when it fails.
func (c *Client) WaitReady(ctx context.Context) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitBackoff
	bo.MaxInterval = 64 * c.cfg.InitBackoff

	attempt := 0
	operation := func() error {
		attempt++
		err := c.call(ctx, "getMe", url.Values{}, nil)
		if err != nil {
			c.logger.Warn().Int("attempt", attempt).Err(err).Msg("Transport init attempt failed")
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(bo, uint64(c.cfg.InitRetries-1)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("transport unreachable after %d attempts: %w", attempt, err)
	}
	c.logger.Info().Msg("Transport initialized")
	return nil
}

// GetUpdates long-polls for updates after offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(int(timeout.Seconds())))

	var updates []Update
	if err := c.call(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// Notify sends a text message to the conversation.
func (c *Client) Notify(ctx context.Context, chatID int64, text string) error {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)
	params.Set("parse_mode", "HTML")
	return c.call(ctx, "sendMessage", params, nil)
}

// NotifyWithKeyboard sends a text message with an inline keyboard attached.
func (c *Client) NotifyWithKeyboard(ctx context.Context, chatID int64, text string, keyboard [][]InlineButton) error {
	markup, err := json.Marshal(map[string]interface{}{"inline_keyboard": keyboard})
	if err != nil {
		return fmt.Errorf("encode keyboard: %w", err)
	}
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)
	params.Set("parse_mode", "HTML")
	params.Set("reply_markup", string(markup))
	return c.call(ctx, "sendMessage", params, nil)
}

// AnswerCallback acknowledges a pressed inline keyboard button.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	params := url.Values{}
	params.Set("callback_query_id", callbackID)
	return c.call(ctx, "answerCallbackQuery", params, nil)
}

// Deliver uploads a local file as a document attachment.
func (c *Client) Deliver(ctx context.Context, chatID int64, filePath, caption, filename string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open delivery file: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeDocumentForm(mw, f, chatID, caption, filename)
		mw.Close()
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendDocument"), pr)
	if err != nil {
		return fmt.Errorf("build sendDocument request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sendDocument: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse("sendDocument", resp.Body, nil)
}

func writeDocumentForm(mw *multipart.Writer, f *os.File, chatID int64, caption, filename string) error {
	if err := mw.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return err
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("document", filename)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

// FilePath resolves a file id to its download path on the API file server.
func (c *Client) FilePath(ctx context.Context, fileID string) (string, error) {
	params := url.Values{}
	params.Set("file_id", fileID)

	var file File
	if err := c.call(ctx, "getFile", params, &file); err != nil {
		return "", err
	}
	if file.FilePath == "" {
		return "", fmt.Errorf("getFile returned no path for %s", fileID)
	}
	return file.FilePath, nil
}

// Download fetches a file from the API file server into dest and returns its
// size in bytes.
func (c *Client) Download(ctx context.Context, fileID, dest string) (int64, error) {
	remotePath, err := c.FilePath(ctx, fileID)
	if err != nil {
		return 0, err
	}

	downloadURL := fmt.Sprintf("%s/file/bot%s/%s", c.cfg.BaseURL, c.cfg.Token, remotePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create download target: %w", err)
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("write download target: %w", err)
	}
	return n, nil
}
